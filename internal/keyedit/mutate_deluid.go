package keyedit

// DeleteUID implements delete-uid (§4.5.2). Every uid in pub with
// SEL_UID set, plus its following signatures, is tombstoned; the
// matching uid (by name) in sec is tombstoned the same way. Refuses
// when the deletion would leave pub with zero uids; the caller
// (menu loop) is expected to have already checked this, but the core
// enforces it too since nothing else stands between a bad caller and
// a keyblock with no identities.
func DeleteUID(pub, sec *Keyblock) (bool, error) {
	selected := make([]*Node, 0)
	for _, u := range pub.UIDs() {
		if u.Has(FlagSelUID) {
			selected = append(selected, u)
		}
	}
	if len(selected) == 0 {
		return false, nil
	}
	if len(selected) >= len(pub.UIDs()) {
		return false, ErrLastUID
	}

	for _, u := range selected {
		name := append([]byte(nil), u.Packet.UserID.Name...)
		pub.DeleteGroup(u)
		if sec != nil {
			if secUID := sec.UIDByName(name); secUID != nil {
				sec.DeleteGroup(secUID)
			}
		}
	}

	pub.store.Commit()
	pub.Modified = true
	if sec != nil {
		sec.store.Commit()
		sec.Modified = true
	}
	return true, nil
}

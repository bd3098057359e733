package keyedit

// DeleteSubkey implements delete-subkey (§4.5.3). Every subkey in pub
// with SEL_KEY set, plus its binding signatures, is tombstoned; the
// matching subkey (by key id) in sec is tombstoned the same way.
func DeleteSubkey(pub, sec *Keyblock) (bool, error) {
	selected := make([]*Node, 0)
	for _, sk := range pub.Subkeys() {
		if sk.Has(FlagSelKey) {
			selected = append(selected, sk)
		}
	}
	if len(selected) == 0 {
		return false, nil
	}

	for _, sk := range selected {
		keyID := sk.Packet.Key.KeyID
		pub.DeleteGroup(sk)
		if sec != nil {
			if secSK := sec.SubkeyByKeyID(keyID); secSK != nil {
				sec.DeleteGroup(secSK)
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

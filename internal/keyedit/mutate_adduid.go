package keyedit

import "context"

// AddUID implements add-uid (§4.5.1). It collects a new uid name from
// source, builds a class-0x13 self-signature via crypto, and inserts
// the uid and its self-signature into both pub and (if present) sec,
// deep-copying the payloads so neither block aliases the other's
// memory.
func AddUID(ctx context.Context, pub, sec *Keyblock, crypto CryptoEngine, source UserIDSource) (bool, error) {
	name, err := source.GenerateUserID(ctx)
	if err != nil {
		return false, err
	}
	if len(name) == 0 {
		return false, nil
	}

	pubPrimary := pub.Primary()
	if pubPrimary == nil || pubPrimary.Packet.Key == nil {
		return false, ErrNoPrimary
	}

	uidPacket := NewUserIDPacket(name)
	sigData, err := crypto.MakeKeysigPacket(pubPrimary.Packet.Key, uidPacket.UserID, nil, pubPrimary.Packet.Key, SigClassPositiveCert)
	if err != nil {
		return false, nil
	}

	insertInto := func(kb *Keyblock) {
		point := kb.InsertionPointForUID()
		var uidNode *Node
		if point == nil {
			uidNode = kb.store.Append(uidPacket.Clone())
		} else {
			uidNode = kb.store.InsertAfter(point, uidPacket.Clone())
		}
		kb.store.InsertAfter(uidNode, NewSignaturePacket(sigData).Clone())
		kb.Modified = true
	}

	insertInto(pub)
	if sec != nil {
		insertInto(sec)
	}
	return true, nil
}

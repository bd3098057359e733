package keyedit

// Keyblock is an ordered sequence of nodes with a primary at position
// 0, followed by uid groups and subkey groups. Public keyblocks carry
// a PublicKey primary; secret keyblocks carry a SecretKey primary.
type Keyblock struct {
	store    *NodeStore
	Secret   bool
	Modified bool
}

// NewKeyblock wraps an already-populated node store. primary must
// already be the first node appended.
func NewKeyblock(store *NodeStore, secret bool) *Keyblock {
	return &Keyblock{store: store, Secret: secret}
}

// Store exposes the underlying node store for the lower-level
// operations (selection, verification walk) that operate on nodes
// directly.
func (k *Keyblock) Store() *NodeStore {
	return k.store
}

// Primary returns the keyblock's primary key node (the first live
// node), or nil for an empty keyblock.
func (k *Keyblock) Primary() *Node {
	all := k.store.All()
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// PrimaryKeyID returns the primary's key id, or 0 if there is no
// primary.
func (k *Keyblock) PrimaryKeyID() uint64 {
	p := k.Primary()
	if p == nil || p.Packet.Key == nil {
		return 0
	}
	return p.Packet.Key.KeyID
}

// UIDs returns every live UserId node in keyblock order.
func (k *Keyblock) UIDs() []*Node {
	var out []*Node
	k.store.Walk(func(n *Node) bool {
		if n.Packet.Kind == KindUserID {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Subkeys returns every live subkey node (public or secret) in
// keyblock order.
func (k *Keyblock) Subkeys() []*Node {
	var out []*Node
	k.store.Walk(func(n *Node) bool {
		if n.Packet.Kind.IsSubkey() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// boundary reports whether n starts a new group (uid or subkey),
// terminating the signatures that belong to the previous group.
func boundary(n *Node) bool {
	return n.Packet.Kind == KindUserID || n.Packet.Kind.IsSubkey()
}

// SignaturesUnder returns the live Signature nodes following group,
// up to (but not including) the next uid or subkey boundary. group
// must be a UserId or subkey node currently live in the keyblock.
func (k *Keyblock) SignaturesUnder(group *Node) []*Node {
	var out []*Node
	started := false
	k.store.Walk(func(n *Node) bool {
		if n == group {
			started = true
			return true
		}
		if !started {
			return true
		}
		if boundary(n) {
			return false
		}
		if n.Packet.Kind == KindSignature {
			out = append(out, n)
		}
		return true
	})
	return out
}

// DeleteGroup tombstones group and every live signature node
// following it up to the next boundary, i.e. the whole uid group or
// subkey group.
func (k *Keyblock) DeleteGroup(group *Node) {
	sigs := k.SignaturesUnder(group)
	k.store.Delete(group)
	for _, sig := range sigs {
		k.store.Delete(sig)
	}
}

// FirstSubkey returns the first live subkey node, or nil if the
// keyblock has none.
func (k *Keyblock) FirstSubkey() *Node {
	var found *Node
	k.store.Walk(func(n *Node) bool {
		if n.Packet.Kind.IsSubkey() {
			found = n
			return false
		}
		return true
	})
	return found
}

// InsertionPointForUID returns the node after which a newly added uid
// (and its self-signature) should be inserted: the node just before
// the first subkey, or the last live node if there are no subkeys.
func (k *Keyblock) InsertionPointForUID() *Node {
	all := k.store.All()
	if len(all) == 0 {
		return nil
	}
	sk := k.FirstSubkey()
	if sk == nil {
		return all[len(all)-1]
	}
	for i, n := range all {
		if n == sk {
			if i == 0 {
				return nil
			}
			return all[i-1]
		}
	}
	return all[len(all)-1]
}

// UIDByName returns the live UserId node whose name bytes equal name,
// or nil. Used to locate the corresponding uid across the paired
// public/secret blocks (§3 "Paired keyblocks").
func (k *Keyblock) UIDByName(name []byte) *Node {
	for _, u := range k.UIDs() {
		if bytesEqual(u.Packet.UserID.Name, name) {
			return u
		}
	}
	return nil
}

// SubkeyByKeyID returns the live subkey node with the given key id, or
// nil.
func (k *Keyblock) SubkeyByKeyID(keyID uint64) *Node {
	for _, sk := range k.Subkeys() {
		if sk.Packet.Key.KeyID == keyID {
			return sk
		}
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Release zeroizes secret material and drops the node store. Part of
// the session-end resource-release obligation (§5).
func (k *Keyblock) Release() {
	k.store.Release()
}

package keyedit

// NodeStore is an ordered, mutable sequence of packet nodes with
// tombstone-based deletion. Node identity is the pointer; callers keep
// the *Node returned by Append/InsertAfter to refer back to it later.
type NodeStore struct {
	nodes []*Node
}

// NewNodeStore returns an empty store.
func NewNodeStore() *NodeStore {
	return &NodeStore{}
}

// Append adds a new node holding p to the end of the store and returns it.
func (s *NodeStore) Append(p Packet) *Node {
	n := NewNode(p)
	s.nodes = append(s.nodes, n)
	return n
}

// InsertAfter inserts a new node holding p immediately after after and
// returns it. after must be a node currently in the store (deleted or
// not); inserting after a deleted node is allowed, matching the
// mutation operations' need to place a new self-signature right after
// a uid that may be concurrently tombstoned by the same pass.
func (s *NodeStore) InsertAfter(after *Node, p Packet) *Node {
	idx := s.indexOf(after)
	if idx < 0 {
		panic("keyedit: InsertAfter given a node not in this store")
	}
	n := NewNode(p)
	s.nodes = append(s.nodes, nil)
	copy(s.nodes[idx+2:], s.nodes[idx+1:])
	s.nodes[idx+1] = n
	return n
}

func (s *NodeStore) indexOf(target *Node) int {
	for i, n := range s.nodes {
		if n == target {
			return i
		}
	}
	return -1
}

// FindFirst returns the first live node of the given kind, or nil.
func (s *NodeStore) FindFirst(kind Kind) *Node {
	var found *Node
	s.Walk(func(n *Node) bool {
		if n.Packet.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk calls fn for each live node in order, stopping early if fn
// returns false. Deleted nodes are skipped entirely.
func (s *NodeStore) Walk(fn func(*Node) bool) {
	for _, n := range s.nodes {
		if n.deleted {
			continue
		}
		if !fn(n) {
			return
		}
	}
}

// All returns every live node in order, for callers that need
// positional access (Keyblock.Primary, InsertionPointForUID).
func (s *NodeStore) All() []*Node {
	out := make([]*Node, 0, len(s.nodes))
	s.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Raw returns every node, live or deleted, in underlying storage order.
// Used by UIDOfSignature, which locates a node even if it is deleted
// and then scans backward over live nodes to the preceding boundary.
func (s *NodeStore) Raw() []*Node {
	return s.nodes
}

// Delete tombstones n. Idempotent: deleting an already-deleted node is
// a no-op.
func (s *NodeStore) Delete(n *Node) {
	n.deleted = true
}

// Commit compacts the sequence, physically removing every tombstoned
// node. Idempotent, and preserves the relative order and flags of
// surviving nodes.
func (s *NodeStore) Commit() {
	live := s.nodes[:0:0]
	for _, n := range s.nodes {
		if !n.deleted {
			live = append(live, n)
		}
	}
	s.nodes = live
}

// Release zeroizes secret material on every node and drops the
// underlying slice. Called on every session exit path.
func (s *NodeStore) Release() {
	for _, n := range s.nodes {
		if n.Packet.Key != nil {
			n.Packet.Key.Zeroize()
		}
	}
	s.nodes = nil
}

// Len returns the number of live nodes.
func (s *NodeStore) Len() int {
	n := 0
	s.Walk(func(*Node) bool { n++; return true })
	return n
}

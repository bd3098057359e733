package keyedit

// Flag is the set of per-node bits the core recognizes. BadSig, NoKey,
// and SigErr are mutually exclusive on a given node; see SetSigResult.
type Flag uint16

const (
	FlagBadSig Flag = 1 << iota
	FlagNoKey
	FlagSigErr
	FlagMarkA
	FlagSelUID
	FlagSelKey
)

const sigResultFlags = FlagBadSig | FlagNoKey | FlagSigErr

// Node is a packet plus its flag bits. Deletion is tracked separately
// from Flags: it is a node-store bookkeeping bit, not one of the six
// flags the spec enumerates as belonging to the keyblock model proper.
type Node struct {
	Packet  Packet
	Flags   Flag
	deleted bool
}

// NewNode wraps a packet in a fresh, unflagged node.
func NewNode(p Packet) *Node {
	return &Node{Packet: p}
}

// Has reports whether all bits of f are set.
func (n *Node) Has(f Flag) bool {
	return n.Flags&f == f
}

// Set turns on the bits of f.
func (n *Node) Set(f Flag) {
	n.Flags |= f
}

// Clear turns off the bits of f.
func (n *Node) Clear(f Flag) {
	n.Flags &^= f
}

// Toggle flips the bits of f.
func (n *Node) Toggle(f Flag) {
	n.Flags ^= f
}

// SetSigResult clears the three mutually-exclusive signature-error
// flags and then sets at most one of them, keeping the exclusivity
// invariant required by the data model.
func (n *Node) SetSigResult(f Flag) {
	n.Flags &^= sigResultFlags
	n.Flags |= f & sigResultFlags
}

// Deleted reports whether the node has been tombstoned.
func (n *Node) Deleted() bool {
	return n.deleted
}

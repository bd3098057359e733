package keyedit

import "fmt"

// SelectUID implements select-uid(index). index == 0 clears SEL_UID
// on every uid; index >= 1 toggles the index-th (1-based) uid's
// SEL_UID. Returns ok == false with a message when index is
// out-of-range.
func SelectUID(k *Keyblock, index int) (ok bool, message string) {
	uids := k.UIDs()
	if index == 0 {
		for _, u := range uids {
			u.Clear(FlagSelUID)
		}
		return true, ""
	}
	if index < 1 || index > len(uids) {
		return false, fmt.Sprintf("no user id with index %d", index)
	}
	uids[index-1].Toggle(FlagSelUID)
	return true, ""
}

// SelectKey implements select-key(index) over subkey nodes.
func SelectKey(k *Keyblock, index int) (ok bool, message string) {
	subkeys := k.Subkeys()
	if index == 0 {
		for _, sk := range subkeys {
			sk.Clear(FlagSelKey)
		}
		return true, ""
	}
	if index < 1 || index > len(subkeys) {
		return false, fmt.Sprintf("no subkey with index %d", index)
	}
	subkeys[index-1].Toggle(FlagSelKey)
	return true, ""
}

// CountUIDs returns the number of live UserId nodes.
func CountUIDs(k *Keyblock) int {
	return len(k.UIDs())
}

// CountSubkeys returns the number of live subkey nodes.
func CountSubkeys(k *Keyblock) int {
	return len(k.Subkeys())
}

// CountWithFlag returns the number of live nodes carrying all bits of f.
func CountWithFlag(k *Keyblock, f Flag) int {
	n := 0
	k.store.Walk(func(node *Node) bool {
		if node.Has(f) {
			n++
		}
		return true
	})
	return n
}

// CountSelectedUIDs is CountWithFlag(k, FlagSelUID), named separately
// because it anchors the select-all-if-none-selected idiom used
// throughout the mutation operations.
func CountSelectedUIDs(k *Keyblock) int {
	return CountWithFlag(k, FlagSelUID)
}

// CountSelectedKeys is CountWithFlag(k, FlagSelKey).
func CountSelectedKeys(k *Keyblock) int {
	return CountWithFlag(k, FlagSelKey)
}

// MarkCandidateUIDs implements the select-all-if-none-selected idiom:
// sets MARK_A on every uid if selectAll is true, otherwise only on
// uids already carrying SEL_UID.
func MarkCandidateUIDs(k *Keyblock, selectAll bool) {
	for _, u := range k.UIDs() {
		if selectAll || u.Has(FlagSelUID) {
			u.Set(FlagMarkA)
		}
	}
}

// ClearMarks clears MARK_A on every live node. Every operation that
// sets MARK_A must clear it before returning to the menu loop (§4.3).
func ClearMarks(k *Keyblock) {
	k.store.Walk(func(n *Node) bool {
		n.Clear(FlagMarkA)
		return true
	})
}

// MarkedUIDs returns the live uids currently carrying MARK_A, in
// keyblock order.
func MarkedUIDs(k *Keyblock) []*Node {
	var out []*Node
	for _, u := range k.UIDs() {
		if u.Has(FlagMarkA) {
			out = append(out, u)
		}
	}
	return out
}

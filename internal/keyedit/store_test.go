package keyedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeStoreWalkSkipsDeleted(t *testing.T) {
	s := NewNodeStore()
	a := s.Append(NewUserIDPacket([]byte("a")))
	s.Append(NewUserIDPacket([]byte("b")))
	s.Delete(a)

	var seen []string
	s.Walk(func(n *Node) bool {
		seen = append(seen, string(n.Packet.UserID.Name))
		return true
	})
	assert.Equal(t, []string{"b"}, seen)
}

func TestNodeStoreCommitIsIdempotent(t *testing.T) {
	s := NewNodeStore()
	a := s.Append(NewUserIDPacket([]byte("a")))
	s.Append(NewUserIDPacket([]byte("b")))
	s.Delete(a)

	s.Commit()
	first := s.All()
	s.Commit()
	second := s.All()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestNodeStoreCommitPreservesOrderAndFlags(t *testing.T) {
	s := NewNodeStore()
	n1 := s.Append(NewUserIDPacket([]byte("a")))
	n2 := s.Append(NewUserIDPacket([]byte("b")))
	n3 := s.Append(NewUserIDPacket([]byte("c")))
	n2.Set(FlagSelUID)
	s.Delete(n1)
	s.Commit()

	all := s.All()
	require.Len(t, all, 2)
	assert.Same(t, n2, all[0])
	assert.Same(t, n3, all[1])
	assert.True(t, all[0].Has(FlagSelUID))
}

func TestNodeStoreInsertAfter(t *testing.T) {
	s := NewNodeStore()
	a := s.Append(NewUserIDPacket([]byte("a")))
	s.Append(NewUserIDPacket([]byte("c")))
	s.InsertAfter(a, NewUserIDPacket([]byte("b")))

	var names []string
	s.Walk(func(n *Node) bool {
		names = append(names, string(n.Packet.UserID.Name))
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestNodeStoreFindFirst(t *testing.T) {
	s := NewNodeStore()
	s.Append(NewKeyPacket(KindPublicKey, KeyData{KeyID: 1}))
	s.Append(NewUserIDPacket([]byte("a")))
	found := s.FindFirst(KindUserID)
	require.NotNil(t, found)
	assert.Equal(t, "a", string(found.Packet.UserID.Name))
	assert.Nil(t, s.FindFirst(KindSignature))
}

func TestSigResultFlagsAreMutuallyExclusive(t *testing.T) {
	n := NewNode(NewSignaturePacket(SignatureData{}))
	n.SetSigResult(FlagBadSig)
	assert.True(t, n.Has(FlagBadSig))
	n.SetSigResult(FlagNoKey)
	assert.False(t, n.Has(FlagBadSig))
	assert.True(t, n.Has(FlagNoKey))
}

package keyedit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uidNames(kb *Keyblock) []string {
	var out []string
	for _, u := range kb.UIDs() {
		out = append(out, string(u.Packet.UserID.Name))
	}
	return out
}

func buildPairedKeyblocks(names []string) (*Keyblock, *Keyblock) {
	pub := buildTestKeyblock(0x1111, names)
	sec := buildTestKeyblock(0x1111, names)
	sec.Secret = true
	return pub, sec
}

func TestAddUIDInsertsIntoBothBlocks(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice"})
	crypto := newFakeCrypto()
	source := &fakeUIDSource{name: []byte("Bob")}

	ok, err := AddUID(context.Background(), pub, sec, crypto, source)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"Alice", "Bob"}, uidNames(pub))
	assert.Equal(t, []string{"Alice", "Bob"}, uidNames(sec))
	assert.True(t, pub.Modified)
	assert.True(t, sec.Modified)

	// The new uid must carry exactly one self-signature in each block.
	newPubUID := pub.UIDs()[1]
	assert.Len(t, pub.SignaturesUnder(newPubUID), 1)
	newSecUID := sec.UIDs()[1]
	assert.Len(t, sec.SignaturesUnder(newSecUID), 1)
}

func TestAddUIDInsertsBeforeFirstSubkey(t *testing.T) {
	pub, _ := buildPairedKeyblocks([]string{"Alice"})
	pub.Store().Append(NewKeyPacket(KindPublicSubkey, KeyData{KeyID: 0x9999}))
	crypto := newFakeCrypto()
	source := &fakeUIDSource{name: []byte("Bob")}

	_, err := AddUID(context.Background(), pub, nil, crypto, source)
	require.NoError(t, err)

	var kinds []Kind
	pub.Store().Walk(func(n *Node) bool {
		kinds = append(kinds, n.Packet.Kind)
		return true
	})
	// PublicKey, Alice uid, Bob uid, Bob self-sig, subkey.
	require.Len(t, kinds, 5)
	assert.Equal(t, KindPublicSubkey, kinds[len(kinds)-1])
}

func TestAddUIDEmptyNameNotAdded(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice"})
	crypto := newFakeCrypto()
	source := &fakeUIDSource{name: nil}

	ok, err := AddUID(context.Background(), pub, sec, crypto, source)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Alice"}, uidNames(pub))
}

func TestDeleteUIDRemovesFromBothBlocksWithSignatures(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice", "Bob", "Carol"})
	// give Bob a signature in each block to verify it's tombstoned too.
	bobPub := pub.UIDs()[1]
	pub.Store().InsertAfter(bobPub, NewSignaturePacket(SignatureData{SignerKeyID: 1, Class: SigClassGenericCert}))
	bobSec := sec.UIDs()[1]
	sec.Store().InsertAfter(bobSec, NewSignaturePacket(SignatureData{SignerKeyID: 1, Class: SigClassGenericCert}))

	SelectUID(pub, 2) // Bob

	ok, err := DeleteUID(pub, sec)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"Alice", "Carol"}, uidNames(pub))
	assert.Equal(t, []string{"Alice", "Carol"}, uidNames(sec))
	assert.Nil(t, pub.Store().FindFirst(KindSignature))
	assert.Nil(t, sec.Store().FindFirst(KindSignature))
}

func TestDeleteUIDRefusesToLeaveZeroUIDs(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice"})
	SelectUID(pub, 1)

	ok, err := DeleteUID(pub, sec)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrLastUID)
	assert.Equal(t, []string{"Alice"}, uidNames(pub))
}

func TestDeleteUIDNoSelectionIsNoChange(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice", "Bob"})
	ok, err := DeleteUID(pub, sec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddThenDeleteUIDRoundTrip(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice"})
	crypto := newFakeCrypto()
	source := &fakeUIDSource{name: []byte("Bob")}

	_, err := AddUID(context.Background(), pub, sec, crypto, source)
	require.NoError(t, err)

	SelectUID(pub, 2)
	ok, err := DeleteUID(pub, sec)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"Alice"}, uidNames(pub))
	assert.Equal(t, []string{"Alice"}, uidNames(sec))
}

func TestDeleteSubkeyRemovesFromBothBlocks(t *testing.T) {
	pub, sec := buildPairedKeyblocks([]string{"Alice"})
	pub.Store().Append(NewKeyPacket(KindPublicSubkey, KeyData{KeyID: 0xAAAA}))
	sec.Store().Append(NewKeyPacket(KindSecretSubkey, KeyData{KeyID: 0xAAAA}))

	SelectKey(pub, 1)
	ok, err := DeleteSubkey(pub, sec)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, pub.Subkeys(), 0)
	assert.Len(t, sec.Subkeys(), 0)
}

func TestSignUIDsOnlySelected(t *testing.T) {
	pub := buildTestKeyblock(0x1111, []string{"Alice", "Bob", "Carol"})
	signer := &KeyData{KeyID: 0xBEEF}
	crypto := newFakeCrypto()
	crypto.names[0xBEEF] = "signer"
	resolver := &fakeResolver{byName: map[string]*KeyData{"K": signer}}
	tty := &fakeTTY{answers: []bool{true}}

	SelectUID(pub, 1)
	modified, _, err := SignUIDs(context.Background(), pub, crypto, resolver, tty, []SKSpecifier{{Name: "K"}})
	require.NoError(t, err)
	assert.True(t, modified)

	assert.Len(t, pub.SignaturesUnder(pub.UIDs()[0]), 1)
	assert.Len(t, pub.SignaturesUnder(pub.UIDs()[1]), 0)
	assert.Len(t, pub.SignaturesUnder(pub.UIDs()[2]), 0)
	assert.True(t, crypto.cleared)
}

func TestSignUIDsAllWithConfirmation(t *testing.T) {
	pub := buildTestKeyblock(0x1111, []string{"Alice", "Bob", "Carol"})
	signer := &KeyData{KeyID: 0xBEEF}
	crypto := newFakeCrypto()
	resolver := &fakeResolver{byName: map[string]*KeyData{"K": signer}}
	tty := &fakeTTY{answers: []bool{true}}

	modified, _, err := SignUIDs(context.Background(), pub, crypto, resolver, tty, []SKSpecifier{{Name: "K"}})
	require.NoError(t, err)
	assert.True(t, modified)
	for _, u := range pub.UIDs() {
		assert.Len(t, pub.SignaturesUnder(u), 1)
	}
}

func TestSignUIDsTwiceIsIdempotentPerSigner(t *testing.T) {
	pub := buildTestKeyblock(0x1111, []string{"Alice"})
	signer := &KeyData{KeyID: 0xBEEF}
	crypto := newFakeCrypto()
	crypto.names[0xBEEF] = "signer"
	resolver := &fakeResolver{byName: map[string]*KeyData{"K": signer}}
	tty := &fakeTTY{answers: []bool{true, true}}

	_, _, err := SignUIDs(context.Background(), pub, crypto, resolver, tty, []SKSpecifier{{Name: "K"}})
	require.NoError(t, err)
	_, messages, err := SignUIDs(context.Background(), pub, crypto, resolver, tty, []SKSpecifier{{Name: "K"}})
	require.NoError(t, err)

	assert.Len(t, pub.SignaturesUnder(pub.UIDs()[0]), 1)
	assert.Contains(t, messages, "already signed by signer")
}

func TestSignUIDsDeclinedConfirmationProducesNothing(t *testing.T) {
	pub := buildTestKeyblock(0x1111, []string{"Alice"})
	signer := &KeyData{KeyID: 0xBEEF}
	crypto := newFakeCrypto()
	resolver := &fakeResolver{byName: map[string]*KeyData{"K": signer}}
	tty := &fakeTTY{answers: []bool{false}}

	modified, _, err := SignUIDs(context.Background(), pub, crypto, resolver, tty, []SKSpecifier{{Name: "K"}})
	require.NoError(t, err)
	assert.False(t, modified)
	assert.Len(t, pub.SignaturesUnder(pub.UIDs()[0]), 0)
	assert.Equal(t, 0, CountWithFlag(pub, FlagMarkA))
}

func TestChangePassphraseToEmptyUnprotectsAllKeys(t *testing.T) {
	store := NewNodeStore()
	primary := KeyData{KeyID: 0x1111, Protection: Protection{Protected: true}, SecretMaterial: []byte("secret")}
	store.Append(NewKeyPacket(KindSecretKey, primary))
	sub := KeyData{KeyID: 0x2222, Protection: Protection{Protected: true}, SecretMaterial: []byte("subsecret")}
	store.Append(NewKeyPacket(KindSecretSubkey, sub))
	sec := NewKeyblock(store, true)

	crypto := newFakeCrypto()
	prompt := &fakePrompter{current: &Passphrase{Bytes: []byte("old")}, empty: true}

	changed, err := ChangePassphrase(context.Background(), sec, crypto, prompt, S2KParams{}, 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, sec.Modified)

	assert.False(t, sec.Primary().Packet.Key.Protection.Protected)
	assert.False(t, sec.Subkeys()[0].Packet.Key.Protection.Protected)
}

func TestChangePassphraseSameTwice(t *testing.T) {
	store := NewNodeStore()
	primary := KeyData{KeyID: 0x1111, Protection: Protection{Protected: true}}
	store.Append(NewKeyPacket(KindSecretKey, primary))
	sec := NewKeyblock(store, true)

	crypto := newFakeCrypto()
	pass := &Passphrase{Bytes: []byte("hunter2")}

	for i := 0; i < 2; i++ {
		prompt := &fakePrompter{current: &Passphrase{Bytes: append([]byte(nil), pass.Bytes...)}, newPass: &Passphrase{Bytes: append([]byte(nil), pass.Bytes...)}}
		changed, err := ChangePassphrase(context.Background(), sec, crypto, prompt, S2KParams{}, 0)
		require.NoError(t, err)
		assert.True(t, changed)
	}
	assert.True(t, sec.Primary().Packet.Key.Protection.Protected)
}

func TestChangePassphraseUnprotectedPrimarySkipsUnlock(t *testing.T) {
	store := NewNodeStore()
	primary := KeyData{KeyID: 0x1111, Protection: Unprotected()}
	store.Append(NewKeyPacket(KindSecretKey, primary))
	sec := NewKeyblock(store, true)

	crypto := newFakeCrypto()
	prompt := &fakePrompter{newPass: &Passphrase{Bytes: []byte("new")}}

	changed, err := ChangePassphrase(context.Background(), sec, crypto, prompt, S2KParams{}, 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, sec.Primary().Packet.Key.Protection.Protected)
}

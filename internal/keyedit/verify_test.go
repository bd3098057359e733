package keyedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSignedKeyblock constructs a keyblock with one uid carrying a
// valid self-sig, a bad certification, and a certification whose
// signer is unavailable; plus a second uid with no self-sig at all.
func buildSignedKeyblock() (*Keyblock, *fakeCrypto) {
	store := NewNodeStore()
	store.Append(NewKeyPacket(KindPublicKey, KeyData{KeyID: 0x1111}))

	store.Append(NewUserIDPacket([]byte("Alice")))
	store.Append(NewSignaturePacket(SignatureData{SignerKeyID: 0x1111, Class: SigClassPositiveCert, SignedData: []byte("good-self")}))
	store.Append(NewSignaturePacket(SignatureData{SignerKeyID: 0x2222, Class: SigClassGenericCert, SignedData: []byte("bad-cert")}))
	store.Append(NewSignaturePacket(SignatureData{SignerKeyID: 0x3333, Class: SigClassGenericCert, SignedData: []byte("no-key-cert")}))

	store.Append(NewUserIDPacket([]byte("Bob")))

	kb := NewKeyblock(store, false)

	crypto := newFakeCrypto()
	crypto.verdicts["good-self"] = VerifyOK
	crypto.verdicts["bad-cert"] = VerifyBad
	crypto.verdicts["no-key-cert"] = VerifyNoKey
	return kb, crypto
}

func TestCheckAllKeySigsScenarioS6(t *testing.T) {
	kb, crypto := buildSignedKeyblock()
	summary := CheckAllKeySigs(kb, crypto, false)

	assert.Equal(t, 1, summary.Bad)
	assert.Equal(t, 1, summary.NoKey)
	assert.Equal(t, 0, summary.Other)
	assert.Equal(t, 1, summary.MissingSelf) // Bob has no self-sig at all

	all := kb.Store().All()
	var badNode, noKeyNode, selfNode *Node
	for _, n := range all {
		if n.Packet.Signature == nil {
			continue
		}
		switch string(n.Packet.Signature.SignedData) {
		case "bad-cert":
			badNode = n
		case "no-key-cert":
			noKeyNode = n
		case "good-self":
			selfNode = n
		}
	}
	require.NotNil(t, badNode)
	require.NotNil(t, noKeyNode)
	require.NotNil(t, selfNode)
	assert.True(t, badNode.Has(FlagBadSig))
	assert.True(t, noKeyNode.Has(FlagNoKey))
	assert.Zero(t, selfNode.Flags&(FlagBadSig|FlagNoKey|FlagSigErr))
}

func TestCheckAllKeySigsMissingSelfCountsFinalUID(t *testing.T) {
	store := NewNodeStore()
	store.Append(NewKeyPacket(KindPublicKey, KeyData{KeyID: 0x1111}))
	store.Append(NewUserIDPacket([]byte("OnlyOne")))
	kb := NewKeyblock(store, false)
	crypto := newFakeCrypto()

	summary := CheckAllKeySigs(kb, crypto, false)
	assert.Equal(t, 1, summary.MissingSelf)
}

func TestCheckAllKeySigsOnlySelectedSkipsUnselectedUID(t *testing.T) {
	kb, crypto := buildSignedKeyblock()
	// Select only Bob (index 2); Alice's errors must not be counted.
	SelectUID(kb, 2)

	summary := CheckAllKeySigs(kb, crypto, true)
	assert.Equal(t, 0, summary.Bad)
	assert.Equal(t, 0, summary.NoKey)
	assert.Equal(t, 1, summary.MissingSelf)
}

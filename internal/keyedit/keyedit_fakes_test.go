package keyedit

import (
	"context"
	"fmt"
)

// fakeCrypto is a deliberately simple CryptoEngine test double: it
// verifies signatures by a table of SignedData strings it's been told
// the answer for, and makes new signatures as opaque markers rather
// than real cryptography (which this core never performs anyway).
type fakeCrypto struct {
	verdicts map[string]VerifyResult // keyed by string(SignedData)
	detail   map[string]string
	names    map[uint64]string
	nextSig  int
	cleared  bool
}

func newFakeCrypto() *fakeCrypto {
	return &fakeCrypto{
		verdicts: map[string]VerifyResult{},
		detail:   map[string]string{},
		names:    map[uint64]string{},
	}
}

func (f *fakeCrypto) CheckKeySignature(kb *Keyblock, sigNode *Node) (VerifyResult, string) {
	key := string(sigNode.Packet.Signature.SignedData)
	if v, ok := f.verdicts[key]; ok {
		return v, f.detail[key]
	}
	return VerifyOK, ""
}

func (f *fakeCrypto) MakeKeysigPacket(primary *KeyData, uid *UserIDData, subkey *KeyData, signer *KeyData, class byte) (SignatureData, error) {
	f.nextSig++
	data := []byte(fmt.Sprintf("sig-%d", f.nextSig))
	return SignatureData{SignerKeyID: signer.KeyID, Class: class, SignedData: data}, nil
}

func (f *fakeCrypto) IsSecretKeyProtected(sk *KeyData) ProtectionProbe {
	if !sk.Protection.Protected {
		return ProbeUnprotected
	}
	return ProbeProtected
}

func (f *fakeCrypto) CheckSecretKey(sk *KeyData, pass *Passphrase) error {
	return nil
}

func (f *fakeCrypto) PassphraseToDEK(pass *Passphrase, s2k S2KParams, cipherAlgo int) (*DerivedKey, error) {
	return &DerivedKey{Bytes: append([]byte(nil), pass.Bytes...)}, nil
}

func (f *fakeCrypto) ProtectSecretKey(sk *KeyData, dek *DerivedKey, s2k S2KParams, cipherAlgo int) error {
	if dek == nil {
		sk.Protection = Unprotected()
		return nil
	}
	sk.Protection = Protection{Protected: true, S2K: s2k, CipherAlgo: cipherAlgo}
	return nil
}

func (f *fakeCrypto) UnlockSubkey(sk *KeyData, pass *Passphrase) error {
	return nil
}

func (f *fakeCrypto) GetUserID(keyID uint64) (string, bool) {
	n, ok := f.names[keyID]
	return n, ok
}

func (f *fakeCrypto) GetPrefData(localID int, uidNameHash []byte) []byte {
	return nil
}

func (f *fakeCrypto) ClearTrustChecked(primary *KeyData) {
	f.cleared = true
}

// fakeTTY plays back canned yes/no answers in order.
type fakeTTY struct {
	answers []bool
	lines   []string
}

func (t *fakeTTY) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	if len(t.answers) == 0 {
		return defaultYes, nil
	}
	a := t.answers[0]
	t.answers = t.answers[1:]
	return a, nil
}

func (t *fakeTTY) ReadLine(ctx context.Context, prompt string) (string, error) {
	if len(t.lines) == 0 {
		return "", nil
	}
	l := t.lines[0]
	t.lines = t.lines[1:]
	return l, nil
}

func (t *fakeTTY) Printf(format string, args ...interface{}) {}

func (t *fakeTTY) Scripted() bool { return true }

// fakeResolver resolves every specifier to a preset KeyData by name.
type fakeResolver struct {
	byName map[string]*KeyData
}

func (r *fakeResolver) BuildSKList(ctx context.Context, specs []SKSpecifier) ([]*KeyData, error) {
	var out []*KeyData
	for _, s := range specs {
		if k, ok := r.byName[s.Name]; ok {
			out = append(out, k)
		}
	}
	return out, nil
}

// fakeUIDSource returns a preset name once.
type fakeUIDSource struct {
	name []byte
	err  error
}

func (f *fakeUIDSource) GenerateUserID(ctx context.Context) ([]byte, error) {
	return f.name, f.err
}

// fakePrompter returns preset current/new passphrases.
type fakePrompter struct {
	current *Passphrase
	newPass *Passphrase
	empty   bool
}

func (f *fakePrompter) CurrentPassphrase(ctx context.Context) (*Passphrase, error) {
	return f.current, nil
}

func (f *fakePrompter) NewPassphrase(ctx context.Context) (*Passphrase, bool, error) {
	return f.newPass, f.empty, nil
}

// buildTestKeyblock constructs a public keyblock with primary key id
// primaryKeyID and one uid per name in names, each with no signatures.
func buildTestKeyblock(primaryKeyID uint64, names []string) *Keyblock {
	store := NewNodeStore()
	store.Append(NewKeyPacket(KindPublicKey, KeyData{KeyID: primaryKeyID}))
	for _, n := range names {
		store.Append(NewUserIDPacket([]byte(n)))
	}
	return NewKeyblock(store, false)
}

package keyedit

import "context"

// KeyringStore is the keyring I/O collaborator (§6). Positions are
// opaque handles the store assigns; the core never interprets them.
type KeyringStore interface {
	FindKeyblockByName(ctx context.Context, name string) (pos int, found bool, err error)
	FindSecretKeyblockByName(ctx context.Context, name string) (pos int, found bool, err error)
	ReadKeyblock(ctx context.Context, pos int) (*Keyblock, error)
	UpdateKeyblock(ctx context.Context, pos int, kb *Keyblock) error
}

// ProtectionProbe is the result of is-secret-key-protected: Unsupported
// for an algorithm this crypto collaborator cannot unwrap, Unprotected
// for secret material stored in the clear, Protected otherwise.
type ProtectionProbe int

const (
	ProbeUnsupported ProtectionProbe = iota - 1
	ProbeUnprotected
	ProbeProtected
)

// DerivedKey is the data-encryption key produced by PassphraseToDEK.
// Callers must call Zeroize when done with it.
type DerivedKey struct {
	Bytes []byte
}

// Zeroize overwrites the derived key material.
func (d *DerivedKey) Zeroize() {
	if d == nil {
		return
	}
	for i := range d.Bytes {
		d.Bytes[i] = 0
	}
	d.Bytes = nil
}

// Passphrase wraps a passphrase buffer with an explicit zeroization
// obligation. It is passed explicitly between operations rather than
// stashed in a process-wide slot (§9 "Global next passphrase channel").
type Passphrase struct {
	Bytes []byte
}

// Zeroize overwrites the passphrase buffer.
func (p *Passphrase) Zeroize() {
	if p == nil {
		return
	}
	for i := range p.Bytes {
		p.Bytes[i] = 0
	}
	p.Bytes = nil
}

// CryptoEngine is the cryptographic collaborator (§6). It performs no
// packet encoding; SignedData / SecretMaterial are opaque byte slices
// as far as this core is concerned.
type CryptoEngine interface {
	// CheckKeySignature verifies sigNode against its claimed signer and
	// reports outcome plus a human-readable detail for VerifyOther.
	CheckKeySignature(kb *Keyblock, sigNode *Node) (outcome VerifyResult, detail string)

	// MakeKeysigPacket produces a new certification or binding
	// signature. uid is non-nil for a uid certification, subkey is
	// non-nil for a subkey binding; exactly one of them is non-nil.
	MakeKeysigPacket(primary *KeyData, uid *UserIDData, subkey *KeyData, signer *KeyData, class byte) (SignatureData, error)

	// IsSecretKeyProtected probes sk's protection state.
	IsSecretKeyProtected(sk *KeyData) ProtectionProbe

	// CheckSecretKey decrypts sk's protection in place using pass.
	CheckSecretKey(sk *KeyData, pass *Passphrase) error

	// PassphraseToDEK derives a DEK from pass under the given S2K and
	// cipher algorithm.
	PassphraseToDEK(pass *Passphrase, s2k S2KParams, cipherAlgo int) (*DerivedKey, error)

	// ProtectSecretKey re-encrypts sk's secret material under dek,
	// recording the resulting protection descriptor on sk. A nil dek
	// re-protects with Protection.Protected == false.
	ProtectSecretKey(sk *KeyData, dek *DerivedKey, s2k S2KParams, cipherAlgo int) error

	// UnlockSubkey unlocks sk using the already-captured pass from the
	// primary's unlock step, per §4.5.5 step 3.
	UnlockSubkey(sk *KeyData, pass *Passphrase) error

	// GetUserID looks up a displayable identity for a signer key id.
	GetUserID(keyID uint64) (name string, found bool)

	// GetPrefData retrieves a preference byte string for a local id /
	// uid-name-hash pair, or nil if none is stored.
	GetPrefData(localID int, uidNameHash []byte) []byte

	// ClearTrustChecked invalidates the cached trust computation for
	// primary after sign-uids produces at least one new certification
	// (§4.5.4 step 3).
	ClearTrustChecked(primary *KeyData)
}

// UserIDSource is the generate_user_id collaborator: collects a new
// uid name from the operator.
type UserIDSource interface {
	GenerateUserID(ctx context.Context) ([]byte, error)
}

// Confirmer asks a yes/no question, with canned-response playback for
// scripted runs.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error)
}

// TTY is the line-input / display half of the TTY collaborator.
type TTY interface {
	Confirmer
	ReadLine(ctx context.Context, prompt string) (string, error)
	Printf(format string, args ...interface{})
	Scripted() bool
}

// SKSpecifier names a candidate signing secret key for sign-uids
// (build_sk_list's input, one element per local user specifier).
type SKSpecifier struct {
	Name string
}

// SKResolver resolves local user specifiers to usable signing secret
// keys (build_sk_list, §4.5.4 step 1).
type SKResolver interface {
	BuildSKList(ctx context.Context, specs []SKSpecifier) ([]*KeyData, error)
}

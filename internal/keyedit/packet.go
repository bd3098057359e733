// Package keyedit implements the in-memory keyblock model and the
// algorithms that transform it: the node store, keyblock semantics,
// selection and marking, the signature verification walk, and the
// mutation operations (add-uid, delete-uid, delete-subkey, sign-uids,
// change-passphrase).
//
// The package never touches the wire format of an OpenPGP packet stream
// and never performs cryptography itself; both are delegated to the
// collaborator interfaces declared in collaborators.go.
package keyedit

import "time"

// Kind identifies which OpenPGP packet a Packet value represents.
type Kind int

const (
	KindPublicKey Kind = iota
	KindPublicSubkey
	KindSecretKey
	KindSecretSubkey
	KindUserID
	KindSignature
)

func (k Kind) String() string {
	switch k {
	case KindPublicKey:
		return "public-key"
	case KindPublicSubkey:
		return "public-subkey"
	case KindSecretKey:
		return "secret-key"
	case KindSecretSubkey:
		return "secret-subkey"
	case KindUserID:
		return "user-id"
	case KindSignature:
		return "signature"
	default:
		return "unknown"
	}
}

// IsKey reports whether k is one of the four key packet kinds.
func (k Kind) IsKey() bool {
	switch k {
	case KindPublicKey, KindPublicSubkey, KindSecretKey, KindSecretSubkey:
		return true
	default:
		return false
	}
}

// IsSecret reports whether k carries secret material.
func (k Kind) IsSecret() bool {
	return k == KindSecretKey || k == KindSecretSubkey
}

// IsSubkey reports whether k is a subkey (public or secret).
func (k Kind) IsSubkey() bool {
	return k == KindPublicSubkey || k == KindSecretSubkey
}

// S2KParams are the string-to-key parameters that derive a DEK from a
// passphrase.
type S2KParams struct {
	Mode       int
	DigestAlgo int
	Salt       []byte
	Count      int
}

// Protection describes whether a secret key's material is encrypted
// and, if so, under what cipher and S2K parameters.
type Protection struct {
	Protected  bool
	CipherAlgo int
	S2K        S2KParams
}

// Unprotected returns the protection descriptor for an unencrypted key.
func Unprotected() Protection {
	return Protection{Protected: false}
}

// KeyData holds the fields the core reads or writes for any of the four
// key packet kinds. Protection and SecretMaterial are the zero value for
// public keys.
type KeyData struct {
	Algorithm   int
	BitLength   int
	KeyID       uint64
	Created     time.Time
	Expires     time.Time
	Fingerprint []byte
	LocalID     int

	Protection     Protection
	SecretMaterial []byte
}

// Zeroize overwrites secret material in place. Called for every key
// when a keyblock is released at session end.
func (k *KeyData) Zeroize() {
	for i := range k.SecretMaterial {
		k.SecretMaterial[i] = 0
	}
	k.SecretMaterial = nil
}

// UserIDData is the raw name carried by a UserId packet.
type UserIDData struct {
	Name []byte
}

// VerifyResult is the outcome of checking one signature against its
// claimed signer, as reported by the crypto collaborator.
type VerifyResult int

const (
	VerifyUnknown VerifyResult = iota
	VerifyOK
	VerifyBad
	VerifyNoKey
	VerifyOther
)

// Self-signature and certification classes, RFC 4880 §5.2.1.
const (
	SigClassGenericCert  byte = 0x10
	SigClassPersonaCert  byte = 0x11
	SigClassCasualCert   byte = 0x12
	SigClassPositiveCert byte = 0x13
	SigClassSubkeyBind   byte = 0x18
)

// SignatureData holds the fields the core reads or writes for a
// Signature packet.
type SignatureData struct {
	SignerKeyID uint64
	Created     time.Time
	Class       byte
	SignedData  []byte
	Result      VerifyResult
}

// IsCertClass reports whether c is one of the four certification
// classes (0x10..0x13), the range the source tests with "(class & ~3)
// == 0x10".
func IsCertClass(c byte) bool {
	return c&^3 == SigClassGenericCert
}

// Packet is a tagged variant over the six OpenPGP packet kinds this
// core recognizes. Exactly one of Key, UserID, Signature is non-nil,
// selected by Kind.
type Packet struct {
	Kind      Kind
	Key       *KeyData
	UserID    *UserIDData
	Signature *SignatureData
}

// NewKeyPacket builds a key packet of the given kind.
func NewKeyPacket(kind Kind, key KeyData) Packet {
	if !kind.IsKey() {
		panic("keyedit: NewKeyPacket given non-key kind " + kind.String())
	}
	return Packet{Kind: kind, Key: &key}
}

// NewUserIDPacket builds a UserId packet.
func NewUserIDPacket(name []byte) Packet {
	return Packet{Kind: KindUserID, UserID: &UserIDData{Name: append([]byte(nil), name...)}}
}

// NewSignaturePacket builds a Signature packet.
func NewSignaturePacket(sig SignatureData) Packet {
	return Packet{Kind: KindSignature, Signature: &sig}
}

// Clone deep-copies a packet so that inserting it into a second
// keyblock does not alias the original's mutable fields. The source
// deep-copies signature (and uid) payloads when mirroring a mutation
// across the public and secret blocks; value-semantic packets make
// that explicit here instead of implicit pointer sharing.
func (p Packet) Clone() Packet {
	out := Packet{Kind: p.Kind}
	if p.Key != nil {
		k := *p.Key
		k.Fingerprint = append([]byte(nil), p.Key.Fingerprint...)
		k.SecretMaterial = append([]byte(nil), p.Key.SecretMaterial...)
		k.Protection.S2K.Salt = append([]byte(nil), p.Key.Protection.S2K.Salt...)
		out.Key = &k
	}
	if p.UserID != nil {
		u := UserIDData{Name: append([]byte(nil), p.UserID.Name...)}
		out.UserID = &u
	}
	if p.Signature != nil {
		s := *p.Signature
		s.SignedData = append([]byte(nil), p.Signature.SignedData...)
		out.Signature = &s
	}
	return out
}

// Package store provides reference implementations of the keyedit
// KeyringStore collaborator: a lock-file-guarded flat file store and a
// Postgres-backed store, mirroring the two persistence strategies
// present in the example corpus this module was grown from.
package store

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

// gobKeyData and friends are the on-disk encoding for a keyedit
// keyblock. The core's Packet/KeyData/SignatureData types are not
// gob-friendly as-is (unexported NodeStore slice, Packet holding
// pointers into deleted nodes is meaningless on disk) so the store
// package owns a small, private serialization shape instead of
// reaching into keyedit internals. This is the one place in the
// module that falls back to a standard-library mechanism rather than
// a third-party codec: no library in the retrieval pack offers an
// OpenPGP packet encoder, and writing the real one is a named
// Non-goal (see DESIGN.md).
type gobPacket struct {
	Kind      keyedit.Kind
	Key       *gobKeyData
	UserID    []byte
	Signature *gobSignature
}

type gobKeyData struct {
	Algorithm      int
	BitLength      int
	KeyID          uint64
	Created        time.Time
	Expires        time.Time
	Fingerprint    []byte
	LocalID        int
	Protected      bool
	CipherAlgo     int
	S2KMode        int
	S2KDigestAlgo  int
	S2KSalt        []byte
	S2KCount       int
	SecretMaterial []byte
}

type gobSignature struct {
	SignerKeyID uint64
	Created     time.Time
	Class       byte
	SignedData  []byte
	Result      keyedit.VerifyResult
}

type gobNode struct {
	Packet gobPacket
	Flags  keyedit.Flag
}

type gobKeyblock struct {
	Secret bool
	Nodes  []gobNode
}

func encodeKeyblock(kb *keyedit.Keyblock) ([]byte, error) {
	g := gobKeyblock{Secret: kb.Secret}
	kb.Store().Walk(func(n *keyedit.Node) bool {
		g.Nodes = append(g.Nodes, encodeNode(n))
		return true
	})
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeKeyblock(data []byte) (*keyedit.Keyblock, error) {
	var g gobKeyblock
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return nil, err
	}
	nodeStore := keyedit.NewNodeStore()
	for _, gn := range g.Nodes {
		nodeStore.Append(decodePacket(gn.Packet))
	}
	// Re-apply flags in a second pass since Append returns fresh nodes
	// and gob gives us no pointer identity to hook into during decode.
	all := nodeStore.All()
	for i, gn := range g.Nodes {
		all[i].Flags = gn.Flags
	}
	return keyedit.NewKeyblock(nodeStore, g.Secret), nil
}

func encodeNode(n *keyedit.Node) gobNode {
	return gobNode{Packet: encodePacket(n.Packet), Flags: n.Flags}
}

func encodePacket(p keyedit.Packet) gobPacket {
	g := gobPacket{Kind: p.Kind}
	if p.Key != nil {
		g.Key = &gobKeyData{
			Algorithm:      p.Key.Algorithm,
			BitLength:      p.Key.BitLength,
			KeyID:          p.Key.KeyID,
			Created:        p.Key.Created,
			Expires:        p.Key.Expires,
			Fingerprint:    p.Key.Fingerprint,
			LocalID:        p.Key.LocalID,
			Protected:      p.Key.Protection.Protected,
			CipherAlgo:     p.Key.Protection.CipherAlgo,
			S2KMode:        p.Key.Protection.S2K.Mode,
			S2KDigestAlgo:  p.Key.Protection.S2K.DigestAlgo,
			S2KSalt:        p.Key.Protection.S2K.Salt,
			S2KCount:       p.Key.Protection.S2K.Count,
			SecretMaterial: p.Key.SecretMaterial,
		}
	}
	if p.UserID != nil {
		g.UserID = p.UserID.Name
	}
	if p.Signature != nil {
		g.Signature = &gobSignature{
			SignerKeyID: p.Signature.SignerKeyID,
			Created:     p.Signature.Created,
			Class:       p.Signature.Class,
			SignedData:  p.Signature.SignedData,
			Result:      p.Signature.Result,
		}
	}
	return g
}

func decodePacket(g gobPacket) keyedit.Packet {
	p := keyedit.Packet{Kind: g.Kind}
	if g.Key != nil {
		p.Key = &keyedit.KeyData{
			Algorithm:   g.Key.Algorithm,
			BitLength:   g.Key.BitLength,
			KeyID:       g.Key.KeyID,
			Created:     g.Key.Created,
			Expires:     g.Key.Expires,
			Fingerprint: g.Key.Fingerprint,
			LocalID:     g.Key.LocalID,
			Protection: keyedit.Protection{
				Protected:  g.Key.Protected,
				CipherAlgo: g.Key.CipherAlgo,
				S2K: keyedit.S2KParams{
					Mode:       g.Key.S2KMode,
					DigestAlgo: g.Key.S2KDigestAlgo,
					Salt:       g.Key.S2KSalt,
					Count:      g.Key.S2KCount,
				},
			},
			SecretMaterial: g.Key.SecretMaterial,
		}
	}
	if g.UserID != nil {
		p.UserID = &keyedit.UserIDData{Name: g.UserID}
	}
	if g.Signature != nil {
		p.Signature = &keyedit.SignatureData{
			SignerKeyID: g.Signature.SignerKeyID,
			Created:     g.Signature.Created,
			Class:       g.Signature.Class,
			SignedData:  g.Signature.SignedData,
			Result:      g.Signature.Result,
		}
	}
	return p
}

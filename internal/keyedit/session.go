package keyedit

import (
	"context"

	"github.com/pkg/errors"
)

// Session owns the paired public/secret keyblocks for one named key
// over the lifetime of an editing dialog (§3 "Lifecycle"). It is the
// only thing the menu loop mutates; the core's algorithms themselves
// take keyblocks and collaborators directly and know nothing about
// sessions.
type Session struct {
	Name string

	Public *Keyblock
	Secret *Keyblock // nil if the operator holds no secret copy

	SelfSigs map[*Node]*SelfSigInfo

	store  KeyringStore
	crypto CryptoEngine

	pubPos int
	secPos int
	hasSec bool
}

// Open loads the public keyblock (and, if present, the matching
// secret keyblock) for name from store, merging self-signatures into
// the in-memory public keyblock.
func Open(ctx context.Context, name string, store KeyringStore, crypto CryptoEngine) (*Session, error) {
	pos, found, err := store.FindKeyblockByName(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "find public keyblock for %q", name)
	}
	if !found {
		return nil, errors.Errorf("no public keyblock found for %q", name)
	}
	pub, err := store.ReadKeyblock(ctx, pos)
	if err != nil {
		return nil, errors.Wrapf(err, "read public keyblock for %q", name)
	}

	s := &Session{
		Name:   name,
		Public: pub,
		store:  store,
		crypto: crypto,
		pubPos: pos,
	}

	secPos, secFound, err := store.FindSecretKeyblockByName(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "find secret keyblock for %q", name)
	}
	if secFound {
		sec, err := store.ReadKeyblock(ctx, secPos)
		if err != nil {
			return nil, errors.Wrapf(err, "read secret keyblock for %q", name)
		}
		s.Secret = sec
		s.secPos = secPos
		s.hasSec = true
	}

	s.SelfSigs = MergeSelfSigs(s.Public, crypto)
	return s, nil
}

// HasSecret reports whether the session holds a secret keyblock, the
// gate behind every need_sk command (§6).
func (s *Session) HasSecret() bool {
	return s.hasSec
}

// Save persists every modified keyblock back to the store.
func (s *Session) Save(ctx context.Context) error {
	if s.Public.Modified {
		if err := s.store.UpdateKeyblock(ctx, s.pubPos, s.Public); err != nil {
			return errors.Wrap(err, "save public keyblock")
		}
		s.Public.Modified = false
	}
	if s.hasSec && s.Secret.Modified {
		if err := s.store.UpdateKeyblock(ctx, s.secPos, s.Secret); err != nil {
			return errors.Wrap(err, "save secret keyblock")
		}
		s.Secret.Modified = false
	}
	return nil
}

// Modified reports whether either keyblock has unsaved changes.
func (s *Session) Modified() bool {
	return s.Public.Modified || (s.hasSec && s.Secret.Modified)
}

// Close releases both keyblocks, zeroizing secret material. Must be
// called on every exit path (§5 "Resource acquisition").
func (s *Session) Close() {
	if s.Public != nil {
		s.Public.Release()
	}
	if s.Secret != nil {
		s.Secret.Release()
	}
}

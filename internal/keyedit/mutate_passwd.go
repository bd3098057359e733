package keyedit

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// PassphrasePrompter supplies old and new passphrases for
// change-passphrase. Separated from TTY because a scripted test or a
// pinentry-backed collaborator may source passphrases very
// differently from line-oriented prompts.
type PassphrasePrompter interface {
	CurrentPassphrase(ctx context.Context) (*Passphrase, error)
	NewPassphrase(ctx context.Context) (newPass *Passphrase, confirmedEmpty bool, err error)
}

// ChangePassphrase implements change-passphrase (§4.5.5). It unlocks
// every secret key in sec under the captured current passphrase, then
// re-protects all of them under a newly entered passphrase (or strips
// protection entirely if the operator confirms an empty one).
//
// Returns changed == true iff at least one key was re-protected and
// no step failed. On any failure the in-memory keyblock may be
// partially re-protected; the caller must not save in that case.
// State machine: Idle -> Unlocked (if the primary was protected) ->
// Reprotected -> Idle. Every return path zeroizes oldPass/newPass/dek
// via defer, so the function always ends back at Idle regardless of
// which step failed.
func ChangePassphrase(ctx context.Context, sec *Keyblock, crypto CryptoEngine, prompt PassphrasePrompter, newS2K S2KParams, cipherAlgo int) (changed bool, err error) {
	primary := sec.Primary()
	if primary == nil || primary.Packet.Key == nil {
		return false, ErrNoPrimary
	}
	primaryKey := primary.Packet.Key

	var oldPass *Passphrase
	defer func() {
		oldPass.Zeroize()
	}()

	switch crypto.IsSecretKeyProtected(primaryKey) {
	case ProbeUnsupported:
		return false, ErrUnsupportedProtect
	case ProbeUnprotected:
		// nothing to unlock
	default:
		oldPass, err = prompt.CurrentPassphrase(ctx)
		if err != nil {
			return false, err
		}
		if cerr := crypto.CheckSecretKey(primaryKey, oldPass); cerr != nil {
			return false, cerr
		}
	}

	var errs *multierror.Error
	for _, sk := range sec.Subkeys() {
		if sk.Packet.Key == nil {
			continue
		}
		if oldPass == nil {
			continue
		}
		if uerr := crypto.UnlockSubkey(sk.Packet.Key, oldPass); uerr != nil {
			errs = multierror.Append(errs, uerr)
			break
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return false, err
	}

	newPass, confirmedEmpty, err := prompt.NewPassphrase(ctx)
	if err != nil {
		return false, err
	}
	defer newPass.Zeroize()

	reprotectOne := func(sk *KeyData) error {
		if confirmedEmpty {
			return crypto.ProtectSecretKey(sk, nil, S2KParams{}, 0)
		}
		dek, derr := crypto.PassphraseToDEK(newPass, newS2K, cipherAlgo)
		if derr != nil {
			return derr
		}
		defer dek.Zeroize()
		return crypto.ProtectSecretKey(sk, dek, newS2K, cipherAlgo)
	}

	if !confirmedEmpty && newPass == nil {
		return false, ErrPassphraseMismatch
	}

	if rerr := reprotectOne(primaryKey); rerr != nil {
		return false, rerr
	}
	reprotectedAny := true

	for _, sk := range sec.Subkeys() {
		if sk.Packet.Key == nil {
			continue
		}
		if rerr := reprotectOne(sk.Packet.Key); rerr != nil {
			errs = multierror.Append(errs, rerr)
			break
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return false, err
	}

	if reprotectedAny {
		sec.Modified = true
	}
	return reprotectedAny, nil
}

package keyedit

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SignUIDs implements sign-uids (§4.5.4). It certifies the candidate
// uid set (select-all-if-none-selected) with every signer resolved
// from specs. A signer whose secret key cannot be decrypted aborts
// that signer only; failures across signers are aggregated into a
// single error so the caller can report which signers failed while
// the successfully-produced signatures remain in the keyblock.
func SignUIDs(ctx context.Context, pub *Keyblock, crypto CryptoEngine, resolver SKResolver, tty TTY, specs []SKSpecifier) (modified bool, messages []string, err error) {
	signers, rerr := resolver.BuildSKList(ctx, specs)
	if rerr != nil {
		return false, nil, rerr
	}

	selectAll := CountSelectedUIDs(pub) == 0
	var produced bool
	var errs *multierror.Error

	for _, signer := range signers {
		MarkCandidateUIDs(pub, selectAll)

		for _, uid := range MarkedUIDs(pub) {
			if alreadySignedBy(pub, uid, signer.KeyID) {
				uid.Clear(FlagMarkA)
				name, _ := crypto.GetUserID(signer.KeyID)
				messages = append(messages, fmt.Sprintf("already signed by %s", name))
			}
		}

		if len(MarkedUIDs(pub)) == 0 {
			name, _ := crypto.GetUserID(signer.KeyID)
			messages = append(messages, fmt.Sprintf("nothing to sign with %s", name))
			continue
		}

		confirmed, cerr := tty.Confirm(ctx, signerConfirmPrompt(pub, selectAll), false)
		if cerr != nil {
			errs = multierror.Append(errs, cerr)
			ClearMarks(pub)
			continue
		}
		if !confirmed {
			ClearMarks(pub)
			continue
		}

		for {
			marked := MarkedUIDs(pub)
			if len(marked) == 0 {
				break
			}
			uid := marked[0]
			uid.Clear(FlagMarkA)

			sigData, merr := crypto.MakeKeysigPacket(primaryKeyOf(pub), uid.Packet.UserID, nil, signer, SigClassGenericCert)
			if merr != nil {
				errs = multierror.Append(errs, fmt.Errorf("signing with %016X: %w", signer.KeyID, merr))
				ClearMarks(pub)
				break
			}
			pub.store.InsertAfter(uid, NewSignaturePacket(sigData))
			produced = true
			modified = true
		}
	}

	if produced {
		crypto.ClearTrustChecked(primaryKeyOf(pub))
	}

	return modified, messages, errs.ErrorOrNil()
}

func primaryKeyOf(k *Keyblock) *KeyData {
	p := k.Primary()
	if p == nil {
		return nil
	}
	return p.Packet.Key
}

func alreadySignedBy(pub *Keyblock, uid *Node, signerKeyID uint64) bool {
	for _, sig := range pub.SignaturesUnder(uid) {
		if sig.Packet.Signature == nil {
			continue
		}
		if sig.Packet.Signature.SignerKeyID == signerKeyID && IsCertClass(sig.Packet.Signature.Class) {
			return true
		}
	}
	return false
}

func signerConfirmPrompt(pub *Keyblock, selectAll bool) string {
	if selectAll {
		return "Really sign all user ids?"
	}
	return "Really sign the selected user ids?"
}

package main

import (
	"context"
	"fmt"

	"github.com/kevindiffily/gnupg/internal/keyedit"
	"github.com/kevindiffily/gnupg/internal/promptio"
)

// inertCryptoEngine is a deliberately inert CryptoEngine: it reports
// every signature as unverifiable and refuses to produce new ones.
// Real cryptographic primitives are an explicit Non-goal of this
// module (see SPEC_FULL.md §1); this stand-in exists only so the CLI
// entrypoint demonstrates the full wiring (store, TTY, menu loop)
// end to end. Tests exercise internal/keyedit against fakes that
// emulate specific verification outcomes instead of this type.
type inertCryptoEngine struct{}

var _ keyedit.CryptoEngine = (*inertCryptoEngine)(nil)

func (inertCryptoEngine) CheckKeySignature(kb *keyedit.Keyblock, sigNode *keyedit.Node) (keyedit.VerifyResult, string) {
	return keyedit.VerifyOther, "cryptographic verification not implemented in this build"
}

func (inertCryptoEngine) MakeKeysigPacket(primary *keyedit.KeyData, uid *keyedit.UserIDData, subkey *keyedit.KeyData, signer *keyedit.KeyData, class byte) (keyedit.SignatureData, error) {
	return keyedit.SignatureData{}, fmt.Errorf("signature production not implemented in this build")
}

func (inertCryptoEngine) IsSecretKeyProtected(sk *keyedit.KeyData) keyedit.ProtectionProbe {
	if sk.Protection.Protected {
		return keyedit.ProbeProtected
	}
	return keyedit.ProbeUnprotected
}

func (inertCryptoEngine) CheckSecretKey(sk *keyedit.KeyData, pass *keyedit.Passphrase) error {
	return fmt.Errorf("secret key decryption not implemented in this build")
}

func (inertCryptoEngine) PassphraseToDEK(pass *keyedit.Passphrase, s2k keyedit.S2KParams, cipherAlgo int) (*keyedit.DerivedKey, error) {
	return nil, fmt.Errorf("passphrase derivation not implemented in this build")
}

func (inertCryptoEngine) ProtectSecretKey(sk *keyedit.KeyData, dek *keyedit.DerivedKey, s2k keyedit.S2KParams, cipherAlgo int) error {
	return fmt.Errorf("secret key protection not implemented in this build")
}

func (inertCryptoEngine) UnlockSubkey(sk *keyedit.KeyData, pass *keyedit.Passphrase) error {
	return fmt.Errorf("secret key unlock not implemented in this build")
}

func (inertCryptoEngine) GetUserID(keyID uint64) (string, bool) {
	return fmt.Sprintf("%016X", keyID), false
}

func (inertCryptoEngine) GetPrefData(localID int, uidNameHash []byte) []byte {
	return nil
}

func (inertCryptoEngine) ClearTrustChecked(primary *keyedit.KeyData) {}

// stdinUserIDSource reads a new uid's name as one line from the
// terminal (the generate_user_id collaborator of §4.5.1).
type stdinUserIDSource struct {
	term *promptio.Terminal
}

func (s stdinUserIDSource) GenerateUserID(ctx context.Context) ([]byte, error) {
	line, err := s.term.ReadLine(ctx, "Real name: ")
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// singleKeyResolver resolves every specifier to a KeyData it was
// seeded with by name; a real build_sk_list would consult the secret
// keyring, which is out of scope for this demonstration wiring.
type singleKeyResolver struct {
	byName map[string]*keyedit.KeyData
}

func (r *singleKeyResolver) BuildSKList(ctx context.Context, specs []keyedit.SKSpecifier) ([]*keyedit.KeyData, error) {
	var out []*keyedit.KeyData
	for _, s := range specs {
		if k, ok := r.byName[s.Name]; ok {
			out = append(out, k)
		}
	}
	return out, nil
}

package menu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

func (m *Menu) cmdQuit(ctx context.Context, arg string) error {
	if m.Session.Modified() {
		save, err := m.TTY.Confirm(ctx, "Save changes?", true)
		if err != nil {
			return err
		}
		if save {
			return m.cmdSave(ctx, "")
		}
	}
	m.quit = true
	return nil
}

func (m *Menu) cmdSave(ctx context.Context, arg string) error {
	if err := m.Session.Save(ctx); err != nil {
		m.exitCode = 1
		return err
	}
	m.quit = true
	return nil
}

func (m *Menu) cmdHelp(ctx context.Context, arg string) error {
	for _, c := range commands {
		suffix := ""
		if c.needSK {
			suffix = " (requires secret key)"
		}
		m.TTY.Printf("%-8s %s%s\n", c.name, commandHelp[c.name], suffix)
	}
	return nil
}

var commandHelp = map[string]string{
	"quit":   "quit this session",
	"save":   "save and quit",
	"help":   "show this help",
	"fpr":    "show the primary fingerprint",
	"list":   "list the keyblock",
	"uid":    "select a user id by index",
	"key":    "select a subkey by index",
	"check":  "verify all certifications",
	"sign":   "sign selected (or all) user ids",
	"debug":  "dump the raw node sequence",
	"adduid": "add a user id",
	"deluid": "delete selected user ids",
	"addkey": "add a subkey",
	"delkey": "delete selected subkeys",
	"toggle": "toggle secret-key detail display",
	"pref":   "show preferences",
	"passwd": "change the passphrase",
	"trust":  "change the owner trust",
}

func fingerprintHex(fp []byte) string {
	var sb strings.Builder
	for i, b := range fp {
		if i > 0 && i%2 == 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

func (m *Menu) cmdFingerprint(ctx context.Context, arg string) error {
	primary := m.Session.Public.Primary()
	if primary == nil || primary.Packet.Key == nil {
		return keyedit.ErrNoPrimary
	}
	m.TTY.Printf("%s\n", fingerprintHex(primary.Packet.Key.Fingerprint))
	return nil
}

func (m *Menu) cmdList(ctx context.Context, arg string) error {
	pub := m.Session.Public
	primary := pub.Primary()
	if primary != nil && primary.Packet.Key != nil {
		m.TTY.Printf("pub  %04dbit key %016X\n", primary.Packet.Key.BitLength, pub.PrimaryKeyID())
	}
	for i, u := range pub.UIDs() {
		marker := ""
		if u.Has(keyedit.FlagSelUID) {
			marker = "*"
		}
		note := ""
		if info := m.Session.SelfSigs[u]; info != nil && !info.Valid {
			note = " [no valid self-signature]"
		}
		m.TTY.Printf("(%d)%s uid  %s%s\n", i+1, marker, string(u.Packet.UserID.Name), note)
	}
	for i, sk := range pub.Subkeys() {
		marker := ""
		if sk.Has(keyedit.FlagSelKey) {
			marker = "*"
		}
		m.TTY.Printf("(%d)%s sub  %016X\n", i+1, marker, sk.Packet.Key.KeyID)
	}
	return nil
}

func (m *Menu) cmdUID(ctx context.Context, arg string) error {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("uid: expected an index, got %q", arg)
	}
	ok, msg := keyedit.SelectUID(m.Session.Public, idx)
	if !ok {
		m.TTY.Printf("%s\n", msg)
	}
	return nil
}

func (m *Menu) cmdKey(ctx context.Context, arg string) error {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("key: expected an index, got %q", arg)
	}
	ok, msg := keyedit.SelectKey(m.Session.Public, idx)
	if !ok {
		m.TTY.Printf("%s\n", msg)
	}
	return nil
}

func (m *Menu) cmdCheck(ctx context.Context, arg string) error {
	onlySelected := keyedit.CountSelectedUIDs(m.Session.Public) > 0
	summary := keyedit.CheckAllKeySigs(m.Session.Public, m.Crypto, onlySelected)
	for _, line := range summary.Lines {
		m.TTY.Printf("%s\n", line)
	}
	m.TTY.Printf(verifySummaryLine(summary) + "\n")
	return nil
}

func verifySummaryLine(s keyedit.VerifySummary) string {
	return fmt.Sprintf("%s, %s, %s, %s",
		pluralize(s.Bad, "bad signature"),
		pluralize(s.NoKey, "missing key"),
		pluralize(s.Other, "signature error"),
		pluralize(s.MissingSelf, "missing self-signature"))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (m *Menu) cmdSign(ctx context.Context, arg string) error {
	var specs []keyedit.SKSpecifier
	if arg != "" {
		for _, name := range strings.Fields(arg) {
			specs = append(specs, keyedit.SKSpecifier{Name: name})
		}
	} else {
		specs = []keyedit.SKSpecifier{{Name: m.Session.Name}}
	}
	modified, messages, err := keyedit.SignUIDs(ctx, m.Session.Public, m.Crypto, m.Resolver, m.TTY, specs)
	for _, msg := range messages {
		m.TTY.Printf("%s\n", msg)
	}
	if modified {
		m.Session.Public.Modified = true
	}
	return err
}

func (m *Menu) cmdDebug(ctx context.Context, arg string) error {
	pub := m.Session.Public
	pub.Store().Walk(func(n *keyedit.Node) bool {
		owner := ""
		if n.Packet.Kind == keyedit.KindSignature {
			loc := keyedit.UIDOfSignature(pub, n)
			switch {
			case loc.UID != nil:
				owner = fmt.Sprintf(" uid=%q", string(loc.UID.Packet.UserID.Name))
			case loc.Subkey != nil:
				owner = fmt.Sprintf(" subkey=%016X", loc.Subkey.Packet.Key.KeyID)
			case loc.Primary:
				owner = " primary"
			}
		}
		m.TTY.Printf("%-16s flags=%04x%s\n", n.Packet.Kind, n.Flags, owner)
		return true
	})
	return nil
}

func (m *Menu) cmdAddUID(ctx context.Context, arg string) error {
	_, err := keyedit.AddUID(ctx, m.Session.Public, m.Session.Secret, m.Crypto, m.Source)
	return err
}

func (m *Menu) cmdDelUID(ctx context.Context, arg string) error {
	confirmed, err := m.TTY.Confirm(ctx, "Really delete the selected user id(s)?", false)
	if err != nil || !confirmed {
		return err
	}
	_, err = keyedit.DeleteUID(m.Session.Public, m.Session.Secret)
	return err
}

func (m *Menu) cmdAddKeyUnsupported(ctx context.Context, arg string) error {
	// Fresh key-material generation is an explicit Non-goal; addkey
	// stays on the command surface (§6 lists it) but reports that it
	// cannot create new subkey material in this build.
	m.TTY.Printf("addkey is not supported: this build does not generate key material\n")
	return nil
}

func (m *Menu) cmdDelKey(ctx context.Context, arg string) error {
	confirmed, err := m.TTY.Confirm(ctx, "Really delete the selected subkey(s)?", false)
	if err != nil || !confirmed {
		return err
	}
	_, err = keyedit.DeleteSubkey(m.Session.Public, m.Session.Secret)
	return err
}

func (m *Menu) cmdToggle(ctx context.Context, arg string) error {
	m.showSecretDetail = !m.showSecretDetail
	return nil
}

func (m *Menu) cmdPref(ctx context.Context, arg string) error {
	primary := m.Session.Public.Primary()
	if primary == nil || primary.Packet.Key == nil {
		return keyedit.ErrNoPrimary
	}
	for _, u := range m.Session.Public.UIDs() {
		prefs := m.Crypto.GetPrefData(primary.Packet.Key.LocalID, u.Packet.UserID.Name)
		if prefs == nil {
			m.TTY.Printf("%s: (no preferences stored)\n", string(u.Packet.UserID.Name))
			continue
		}
		m.TTY.Printf("%s: % x\n", string(u.Packet.UserID.Name), prefs)
	}
	return nil
}

func (m *Menu) cmdPasswd(ctx context.Context, arg string) error {
	if m.Session.Secret == nil {
		return keyedit.ErrNoSecretKey
	}
	s2k := keyedit.S2KParams{}
	changed, err := keyedit.ChangePassphrase(ctx, m.Session.Secret, m.Crypto, m.Prompter, s2k, 0)
	if err != nil {
		return err
	}
	if changed {
		m.TTY.Printf("passphrase changed\n")
	}
	return nil
}

func (m *Menu) cmdTrust(ctx context.Context, arg string) error {
	// The trust database is an explicit Non-goal; this mirrors GnuPG's
	// own behavior when built without one.
	m.TTY.Printf("trust database not available in this build\n")
	return nil
}

package promptio

import (
	"bytes"
	"context"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

// passwordReader is the subset of Terminal/Scripted this file needs:
// a no-echo read plus a yes/no confirm for the empty-passphrase case.
type passwordReader interface {
	ReadPassword(ctx context.Context, prompt string) ([]byte, error)
	Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error)
}

// Prompter implements keyedit.PassphrasePrompter over a passwordReader
// (Terminal or Scripted), grounded on the repeat-until-match and
// confirm-empty behavior of change-passphrase (§4.5.5 step 4).
type Prompter struct {
	reader passwordReader
}

// NewPrompter wraps a passwordReader as a keyedit.PassphrasePrompter.
func NewPrompter(reader passwordReader) *Prompter {
	return &Prompter{reader: reader}
}

var _ keyedit.PassphrasePrompter = (*Prompter)(nil)

// CurrentPassphrase reads the passphrase protecting the existing key.
func (p *Prompter) CurrentPassphrase(ctx context.Context) (*keyedit.Passphrase, error) {
	b, err := p.reader.ReadPassword(ctx, "Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	return &keyedit.Passphrase{Bytes: b}, nil
}

// NewPassphrase repeat-prompts until two entries match, or returns
// confirmedEmpty == true if the operator enters an empty passphrase
// twice and confirms they want no protection.
func (p *Prompter) NewPassphrase(ctx context.Context) (*keyedit.Passphrase, bool, error) {
	for {
		first, err := p.reader.ReadPassword(ctx, "Enter the new passphrase: ")
		if err != nil {
			return nil, false, err
		}
		second, err := p.reader.ReadPassword(ctx, "Repeat passphrase: ")
		if err != nil {
			return nil, false, err
		}
		if !bytes.Equal(first, second) {
			continue
		}
		if len(first) == 0 {
			ok, err := p.reader.Confirm(ctx, "Do you really want to set no passphrase?", false)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			return nil, true, nil
		}
		return &keyedit.Passphrase{Bytes: first}, false, nil
	}
}

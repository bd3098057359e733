// Package promptio implements the TTY / prompt collaborator (§6):
// line input, yes/no confirmation, and raw-byte-safe string printing,
// plus a scripted variant for tests and batch runs.
package promptio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is a TTY collaborator backed by a real terminal. It handles
// line input, confirmation, display, and no-echo password reads; the
// passphrase dialog itself (repeat-until-match, empty confirmation)
// is Prompter in passphrase.go, built on ReadPassword.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal wraps the given input/output, using fd (typically
// os.Stdin.Fd()) to test for interactivity.
func NewTerminal(in io.Reader, out io.Writer, fd int) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, fd: fd}
}

// ReadLine prints prompt and reads one line of input.
func (t *Terminal) ReadLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question; an empty answer takes defaultYes.
func (t *Terminal) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	suffix := " (y/N) "
	if defaultYes {
		suffix = " (Y/n) "
	}
	answer, err := t.ReadLine(ctx, prompt+suffix)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	switch answer {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Printf writes a raw-byte-safe line. Uid names are operator-supplied
// and may contain arbitrary bytes; Fprintf with %s on a []byte-derived
// string is safe because Go strings are just byte sequences — no
// control-character interpretation happens here, unlike a naive
// C printf with unescaped input.
func (t *Terminal) Printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

// Scripted reports true when the input is not an interactive terminal.
// The menu loop does not consult it; quit asks the same save question
// either way.
func (t *Terminal) Scripted() bool {
	return !term.IsTerminal(t.fd)
}

// ReadPassword reads one line with echo disabled, the no-echo
// passphrase entry named in §6's TTY collaborator contract.
func (t *Terminal) ReadPassword(ctx context.Context, prompt string) ([]byte, error) {
	fmt.Fprint(t.out, prompt)
	if term.IsTerminal(t.fd) {
		pass, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return nil, err
		}
		return pass, nil
	}
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// StdTerminal builds a Terminal over the process's real stdin/stdout.
func StdTerminal() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout, int(os.Stdin.Fd()))
}

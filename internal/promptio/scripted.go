package promptio

import (
	"context"
	"fmt"
)

// Scripted is a canned-response TTY collaborator for non-interactive
// runs and tests: it plays back a fixed queue of lines and yes/no
// answers instead of reading from a real terminal (§6 "canned-response
// playback for scripted runs").
type Scripted struct {
	Lines     []string
	Answers   []bool
	Passwords [][]byte

	Printed []string
}

// ReadLine pops the next scripted line.
func (s *Scripted) ReadLine(ctx context.Context, prompt string) (string, error) {
	if len(s.Lines) == 0 {
		return "", nil
	}
	l := s.Lines[0]
	s.Lines = s.Lines[1:]
	return l, nil
}

// Confirm pops the next scripted yes/no answer.
func (s *Scripted) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	if len(s.Answers) == 0 {
		return defaultYes, nil
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

// Printf records the formatted line instead of writing to a terminal.
func (s *Scripted) Printf(format string, args ...interface{}) {
	s.Printed = append(s.Printed, fmt.Sprintf(format, args...))
}

// Scripted always reports true: a scripted run is never interactive.
func (s *Scripted) Scripted() bool {
	return true
}

// ReadPassword pops the next scripted password.
func (s *Scripted) ReadPassword(ctx context.Context, prompt string) ([]byte, error) {
	if len(s.Passwords) == 0 {
		return nil, nil
	}
	p := s.Passwords[0]
	s.Passwords = s.Passwords[1:]
	return p, nil
}

// Package menu implements the interactive command dispatch loop named
// in §6 ("Command surface"): case-insensitive prefix matching against
// the fixed command table, need_sk gating, and digit shortcuts for
// uid selection. It is deliberately thin — all real behavior lives in
// internal/keyedit — and logs one line per operator command via
// logrus.
package menu

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

// command describes one entry of the command table (§6).
type command struct {
	name   string
	alias  string
	needSK bool
	run    func(m *Menu, ctx context.Context, arg string) error
}

var commands []command

func init() {
	commands = []command{
		{name: "quit", alias: "q", run: (*Menu).cmdQuit},
		{name: "save", run: (*Menu).cmdSave},
		{name: "help", alias: "?", run: (*Menu).cmdHelp},
		{name: "fpr", run: (*Menu).cmdFingerprint},
		{name: "list", alias: "l", run: (*Menu).cmdList},
		{name: "uid", run: (*Menu).cmdUID},
		{name: "key", run: (*Menu).cmdKey},
		{name: "check", alias: "c", run: (*Menu).cmdCheck},
		{name: "sign", alias: "s", run: (*Menu).cmdSign},
		{name: "debug", run: (*Menu).cmdDebug},
		{name: "adduid", needSK: true, run: (*Menu).cmdAddUID},
		{name: "deluid", run: (*Menu).cmdDelUID},
		{name: "addkey", needSK: true, run: (*Menu).cmdAddKeyUnsupported},
		{name: "delkey", run: (*Menu).cmdDelKey},
		{name: "toggle", alias: "t", needSK: true, run: (*Menu).cmdToggle},
		{name: "pref", run: (*Menu).cmdPref},
		{name: "passwd", needSK: true, run: (*Menu).cmdPasswd},
		{name: "trust", run: (*Menu).cmdTrust},
	}
}

// Menu drives one editing session end to end.
type Menu struct {
	Session  *keyedit.Session
	Crypto   keyedit.CryptoEngine
	TTY      keyedit.TTY
	Source   keyedit.UserIDSource
	Resolver keyedit.SKResolver
	Prompter keyedit.PassphrasePrompter

	Log *logrus.Entry

	showSecretDetail bool
	quit             bool
	exitCode         int
}

// Run loops reading and dispatching commands until a quit command (or
// end of input, which is equivalent per §6) sets m.quit.
func (m *Menu) Run(ctx context.Context) int {
	m.cmdList(ctx, "")
	for !m.quit {
		line, err := m.TTY.ReadLine(ctx, "Command> ")
		if err != nil {
			m.quit = true
			break
		}
		if err := m.dispatch(ctx, line); err != nil {
			m.TTY.Printf("error: %v\n", err)
			m.Log.WithError(err).Warn("command failed")
		}
	}
	return m.exitCode
}

func (m *Menu) dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return m.cmdList(ctx, "")
	}
	if n, err := strconv.Atoi(line); err == nil {
		return m.cmdUID(ctx, strconv.Itoa(n))
	}

	fields := strings.SplitN(line, " ", 2)
	word := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}

	cmd := match(word)
	if cmd == nil {
		m.TTY.Printf("invalid command\n")
		return nil
	}
	if cmd.needSK && !m.Session.HasSecret() {
		m.TTY.Printf("you do not have the secret key for this keyblock\n")
		return nil
	}
	m.Log.WithField("command", cmd.name).Info("dispatch")
	return cmd.run(m, ctx, arg)
}

// match implements case-insensitive prefix matching against the
// literal command names and their single-letter aliases (§6).
func match(word string) *command {
	for i := range commands {
		if commands[i].alias != "" && word == commands[i].alias {
			return &commands[i]
		}
	}
	var matched *command
	for i := range commands {
		if strings.HasPrefix(commands[i].name, word) {
			if matched != nil {
				return nil // ambiguous prefix
			}
			matched = &commands[i]
		}
	}
	return matched
}

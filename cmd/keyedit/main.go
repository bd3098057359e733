// Command keyedit is the interactive key editor's CLI entrypoint: it
// wires the configured keyring store, a crypto engine, and a terminal
// TTY collaborator into internal/menu's command dispatch loop.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kevindiffily/gnupg/internal/config"
	"github.com/kevindiffily/gnupg/internal/keyedit"
	"github.com/kevindiffily/gnupg/internal/menu"
	"github.com/kevindiffily/gnupg/internal/promptio"
	"github.com/kevindiffily/gnupg/internal/store"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "keyedit",
		Short: "Interactive OpenPGP-style keyblock editor",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "keyedit.yaml", "path to configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newEditCmd())
	return root
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: "Open a keyblock pair by name and start the interactive editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), args[0])
		},
	}
}

func runEdit(ctx context.Context, name string) error {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	entry := log.WithField("component", "keyedit")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ks, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("open keyring store: %w", err)
	}

	crypto := &inertCryptoEngine{}
	term := promptio.StdTerminal()

	sess, err := keyedit.Open(ctx, name, ks, crypto)
	if err != nil {
		return fmt.Errorf("open session for %q: %w", name, err)
	}
	defer sess.Close()

	m := &menu.Menu{
		Session:  sess,
		Crypto:   crypto,
		TTY:      term,
		Source:   stdinUserIDSource{term: term},
		Resolver: &singleKeyResolver{},
		Prompter: promptio.NewPrompter(term),
		Log:      entry,
	}

	code := m.Run(ctx)
	// os.Exit skips deferred calls, so release the session explicitly.
	sess.Close()
	os.Exit(code)
	return nil
}

func openStore(cfg config.Store) (keyedit.KeyringStore, error) {
	switch cfg.Backend {
	case "sql":
		return store.Dial(cfg.DSN)
	default:
		return store.NewFileKeyringStore(cfg.Dir)
	}
}

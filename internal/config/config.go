// Package config loads the editor's YAML configuration: keyring store
// location and backend, and the defaults the original source reads
// from its global opt (S2K digest/cipher algorithm for newly protected
// keys, default certification class).
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Store selects and configures a KeyringStore backend.
type Store struct {
	Backend string `yaml:"backend"` // "file" or "sql"
	Dir     string `yaml:"dir,omitempty"`
	DSN     string `yaml:"dsn,omitempty"`
}

// Defaults mirrors the original source's opt.s2k_* /
// opt.def_cert_level globals as plain configuration instead of a
// process-wide mutable singleton.
type Defaults struct {
	S2KDigestAlgo int `yaml:"s2k_digest_algo"`
	S2KCipherAlgo int `yaml:"s2k_cipher_algo"`
	S2KCount      int `yaml:"s2k_count"`
	CertClass     int `yaml:"cert_class"`
}

// Config is the top-level configuration document.
type Config struct {
	Store    Store    `yaml:"store"`
	Defaults Defaults `yaml:"defaults"`
}

// defaultConfig matches GnuPG's own defaults: SHA-1 string-to-key
// digest, CAST5 cipher, 65536-iteration S2K count (the minimum that
// RFC 4880 recommends), generic certifications.
func defaultConfig() Config {
	return Config{
		Store: Store{Backend: "file", Dir: "./keyring"},
		Defaults: Defaults{
			S2KDigestAlgo: 2,  // SHA-1
			S2KCipherAlgo: 3,  // CAST5
			S2KCount:      96, // encoded iteration count, RFC 4880 §3.7.1.3
			CertClass:     0x10,
		},
	}
}

// Load reads and parses a YAML config file at path. A missing file is
// not an error: Load returns defaultConfig() so the binary runs with
// sane values out of the box.
func Load(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config file %s", path)
	}
	return cfg, nil
}

package keyedit

import "errors"

// Sentinel errors for invariant violations (§7 "Invariant violations").
// These are pure value comparisons the core and its tests need; the
// menu layer returns them unwrapped and prints them as they are.
var (
	ErrNoPrimary          = errors.New("keyedit: keyblock has no primary key")
	ErrNoSecretKey        = errors.New("keyedit: secret key packet absent")
	ErrLastUID            = errors.New("keyedit: refusing to delete the last user id")
	ErrUnsupportedProtect = errors.New("keyedit: unsupported secret key protection algorithm")
	ErrPassphraseMismatch = errors.New("keyedit: new passphrase entries did not match")
)

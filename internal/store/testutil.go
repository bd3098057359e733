package store

import (
	"os"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

// WriteFixtureForTests seeds a FileKeyringStore's backing file
// directly, bypassing UpdateKeyblock's "position must already exist"
// precondition. Exported for use by other packages' tests that need a
// pre-populated store; production code never calls this (importing a
// brand-new keyblock from outside the editor is out of scope).
func WriteFixtureForTests(fs *FileKeyringStore, name string, secret bool, kb *keyedit.Keyblock) error {
	data, err := encodeKeyblock(kb)
	if err != nil {
		return err
	}
	return os.WriteFile(fs.pathFor(name, secret), data, 0600)
}

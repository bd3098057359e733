package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nightlyone/lockfile"
	"github.com/pkg/errors"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

// FileKeyringStore is a flat-file KeyringStore: one gob-encoded
// keyblock per file under dir, named "<name>.pub"/".sec" with every
// character outside [A-Za-z0-9] of the name replaced by '_'. A
// lockfile.Lockfile guards UpdateKeyblock the way
// bwesterb-go-xmssmt's key container guards its own state file,
// standing in for the cross-process locking §5 says the real keyring
// store provides and treats as opaque.
type FileKeyringStore struct {
	dir string

	mu   sync.Mutex
	lock lockfile.Lockfile
}

// NewFileKeyringStore opens (creating if absent) a flat-file store
// rooted at dir.
func NewFileKeyringStore(dir string) (*FileKeyringStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "create keyring directory")
	}
	lockPath, err := filepath.Abs(filepath.Join(dir, ".keyedit.lock"))
	if err != nil {
		return nil, errors.Wrap(err, "resolve lockfile path")
	}
	lf, err := lockfile.New(lockPath)
	if err != nil {
		return nil, errors.Wrap(err, "create lockfile handle")
	}
	return &FileKeyringStore{dir: dir, lock: lf}, nil
}

var _ keyedit.KeyringStore = (*FileKeyringStore)(nil)

// position encodes which file and which keyring (public/secret) a
// find call resolved to.
type position struct {
	name   string
	secret bool
}

// positions tracked by value; the core treats them as opaque ints, so
// the store keeps its own table and hands out indices into it.
type positionTable struct {
	mu    sync.Mutex
	slots []position
}

// positions is process-global because KeyringStore.ReadKeyblock/
// UpdateKeyblock take a bare int position (§6); the table just gives
// out stable indices for (name, secret) pairs, it carries no keyblock
// data itself, and ReadKeyblock/UpdateKeyblock always resolve the
// actual file path through the FileKeyringStore receiver that looked
// the position up in the first place.
var positions positionTable

func (t *positionTable) intern(p position) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.slots {
		if existing == p {
			return i
		}
	}
	t.slots = append(t.slots, p)
	return len(t.slots) - 1
}

func (t *positionTable) lookup(pos int) (position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pos < 0 || pos >= len(t.slots) {
		return position{}, false
	}
	return t.slots[pos], true
}

func (s *FileKeyringStore) pathFor(name string, secret bool) string {
	ext := ".pub"
	if secret {
		ext = ".sec"
	}
	return filepath.Join(s.dir, sanitize(name)+ext)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func (s *FileKeyringStore) find(ctx context.Context, name string, secret bool) (int, bool, error) {
	path := s.pathFor(name, secret)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, errors.Wrapf(err, "stat %s", path)
	}
	return positions.intern(position{name: name, secret: secret}), true, nil
}

// FindKeyblockByName implements keyedit.KeyringStore.
func (s *FileKeyringStore) FindKeyblockByName(ctx context.Context, name string) (int, bool, error) {
	return s.find(ctx, name, false)
}

// FindSecretKeyblockByName implements keyedit.KeyringStore.
func (s *FileKeyringStore) FindSecretKeyblockByName(ctx context.Context, name string) (int, bool, error) {
	return s.find(ctx, name, true)
}

// ReadKeyblock implements keyedit.KeyringStore.
func (s *FileKeyringStore) ReadKeyblock(ctx context.Context, pos int) (*keyedit.Keyblock, error) {
	p, ok := positions.lookup(pos)
	if !ok {
		return nil, errors.Errorf("store: unknown position %d", pos)
	}
	data, err := os.ReadFile(s.pathFor(p.name, p.secret))
	if err != nil {
		return nil, errors.Wrap(err, "read keyblock file")
	}
	return decodeKeyblock(data)
}

// UpdateKeyblock implements keyedit.KeyringStore, taking the
// cross-process lock for the duration of the write.
func (s *FileKeyringStore) UpdateKeyblock(ctx context.Context, pos int, kb *keyedit.Keyblock) error {
	p, ok := positions.lookup(pos)
	if !ok {
		return errors.Errorf("store: unknown position %d", pos)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.TryLock(); err != nil {
		return errors.Wrap(err, "acquire keyring lock")
	}
	defer s.lock.Unlock()

	data, err := encodeKeyblock(kb)
	if err != nil {
		return errors.Wrap(err, "encode keyblock")
	}
	path := s.pathFor(p.name, p.secret)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "write keyblock temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "rename keyblock temp file")
	}
	return nil
}

package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kevindiffily/gnupg/internal/keyedit"
)

// SQLKeyringStore is a Postgres-backed KeyringStore. Its shape —
// *sql.DB embedding, a createTables step run once at Dial time, and
// github.com/pkg/errors wrapping on every driver call — is carried
// over from the teacher's hockeypuck/pghkp storage, cut down from a
// multi-key HKP keyserver schema to the single-table shape this editor
// actually needs: one row per keyblock, keyed by the operator-supplied
// name.
type SQLKeyringStore struct {
	*sql.DB
}

var _ keyedit.KeyringStore = (*SQLKeyringStore)(nil)

const createTables = `
CREATE TABLE IF NOT EXISTS keyedit_keyblock (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	secret BOOLEAN NOT NULL,
	data BYTEA NOT NULL,
	UNIQUE (name, secret)
);`

// Dial opens a Postgres connection and ensures the schema exists.
func Dial(url string) (*SQLKeyringStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres connection")
	}
	return New(db)
}

// New wraps an already-open *sql.DB, ensuring the schema exists.
func New(db *sql.DB) (*SQLKeyringStore, error) {
	s := &SQLKeyringStore{DB: db}
	if _, err := s.Exec(createTables); err != nil {
		return nil, errors.Wrap(err, "create keyedit_keyblock table")
	}
	return s, nil
}

func (s *SQLKeyringStore) find(ctx context.Context, name string, secret bool) (int, bool, error) {
	var id int
	err := s.QueryRowContext(ctx,
		`SELECT id FROM keyedit_keyblock WHERE name ILIKE '%' || $1 || '%' AND secret = $2 ORDER BY id LIMIT 1`,
		name, secret).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "query keyblock by name")
	}
	return id, true, nil
}

// FindKeyblockByName implements keyedit.KeyringStore.
func (s *SQLKeyringStore) FindKeyblockByName(ctx context.Context, name string) (int, bool, error) {
	return s.find(ctx, name, false)
}

// FindSecretKeyblockByName implements keyedit.KeyringStore.
func (s *SQLKeyringStore) FindSecretKeyblockByName(ctx context.Context, name string) (int, bool, error) {
	return s.find(ctx, name, true)
}

// ReadKeyblock implements keyedit.KeyringStore.
func (s *SQLKeyringStore) ReadKeyblock(ctx context.Context, pos int) (*keyedit.Keyblock, error) {
	var data []byte
	err := s.QueryRowContext(ctx, `SELECT data FROM keyedit_keyblock WHERE id = $1`, pos).Scan(&data)
	if err != nil {
		return nil, errors.Wrap(err, "query keyblock data")
	}
	return decodeKeyblock(data)
}

// UpdateKeyblock implements keyedit.KeyringStore. Postgres's row-level
// locking on the UPDATE makes this atomic w.r.t. concurrent readers
// without any extra application-level lock, unlike FileKeyringStore.
func (s *SQLKeyringStore) UpdateKeyblock(ctx context.Context, pos int, kb *keyedit.Keyblock) error {
	data, err := encodeKeyblock(kb)
	if err != nil {
		return errors.Wrap(err, "encode keyblock")
	}
	res, err := s.ExecContext(ctx, `UPDATE keyedit_keyblock SET data = $1 WHERE id = $2`, data, pos)
	if err != nil {
		return errors.Wrap(err, "update keyblock row")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "check update result")
	}
	if n == 0 {
		return errors.Errorf("store: no keyblock row at position %d", pos)
	}
	return nil
}

// Insert writes a brand-new keyblock row, used by test fixtures and
// the one-time import path; the interactive editor never creates
// keyblocks itself (key generation is a Non-goal).
func (s *SQLKeyringStore) Insert(ctx context.Context, name string, kb *keyedit.Keyblock) (int, error) {
	data, err := encodeKeyblock(kb)
	if err != nil {
		return 0, errors.Wrap(err, "encode keyblock")
	}
	var id int
	err = s.QueryRowContext(ctx,
		`INSERT INTO keyedit_keyblock (name, secret, data) VALUES ($1, $2, $3) RETURNING id`,
		name, kb.Secret, data).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert keyblock row")
	}
	return id, nil
}

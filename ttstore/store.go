// Package ttstore saves transposition tables to a SQLite file so that a
// later run can start from what an earlier one already searched.
package ttstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/connectfour/negamax"
)

// ErrSeedMismatch is returned when a file was written with a different
// Zobrist seed. Its keys mean nothing to the table being loaded.
var ErrSeedMismatch = errors.New("transposition table was saved with a different zobrist seed")

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	hash     INTEGER PRIMARY KEY,
	player   INTEGER NOT NULL,
	occupied INTEGER NOT NULL,
	score    INTEGER NOT NULL,
	depth    INTEGER NOT NULL,
	flag     INTEGER NOT NULL
);`

const seedKey = "zobrist-seed"

type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// one connection; sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Seed returns the seed the stored entries were hashed with. ok is false if
// nothing has been saved yet.
func (s *Store) Seed(ctx context.Context) (seed uint64, ok bool, err error) {
	var v string
	err = s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", seedKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	seed, err = strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad seed %q in %s: %w", v, s.path, err)
	}
	return seed, true, nil
}

// Save replaces the contents of the store with every entry of tt. It
// returns the number of entries written.
func (s *Store) Save(ctx context.Context, tt *negamax.TranspositionTable, seed uint64) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		seedKey, strconv.FormatUint(seed, 10))
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO entries (hash, player, occupied, score, depth, flag) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	var insertErr error
	tt.Range(func(zval uint64, te negamax.TableEntry) bool {
		_, insertErr = stmt.ExecContext(ctx, int64(zval), int64(te.Player()),
			int64(te.Occupied()), te.Score(), te.Depth(), te.Flag())
		if insertErr != nil {
			return false
		}
		n++
		return true
	})
	if insertErr != nil {
		return 0, fmt.Errorf("saving entry %d: %w", n, insertErr)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info().Int("entries", n).Str("path", s.path).Msg("tt-store-saved")
	return n, nil
}

// Load restores every stored entry into tt, subject to the table's usual
// rule that deeper entries are kept. It returns the number of entries read.
func (s *Store) Load(ctx context.Context, tt *negamax.TranspositionTable, seed uint64) (int, error) {
	stored, ok, err := s.Seed(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.Info().Str("path", s.path).Msg("tt-store-empty")
		return 0, nil
	}
	if stored != seed {
		return 0, fmt.Errorf("%w: %s has %d, want %d", ErrSeedMismatch, s.path, stored, seed)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT hash, player, occupied, score, depth, flag FROM entries")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var zval, player, occupied int64
		var score, depth int
		var flag uint8
		if err := rows.Scan(&zval, &player, &occupied, &score, &depth, &flag); err != nil {
			return n, err
		}
		tt.Restore(uint64(zval), negamax.NewTableEntry(uint64(player), uint64(occupied), score, depth, flag))
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	log.Info().Int("entries", n).Str("path", s.path).Msg("tt-store-loaded")
	return n, nil
}

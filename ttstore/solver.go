package ttstore

import (
	"context"

	"github.com/domino14/connectfour/negamax"
)

// LoadSolver fills s's table from the store at path. The table is checked
// against the seed of s's Zobrist table.
func LoadSolver(ctx context.Context, path string, s *negamax.Solver) error {
	store, err := Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Load(ctx, s.TranspositionTable(), s.Zobrist().Seed())
	return err
}

// SaveSolver writes s's table to the store at path.
func SaveSolver(ctx context.Context, path string, s *negamax.Solver) error {
	store, err := Open(ctx, path)
	if err != nil {
		return err
	}
	if _, err := store.Save(ctx, s.TranspositionTable(), s.Zobrist().Seed()); err != nil {
		store.Close()
		return err
	}
	return store.Close()
}

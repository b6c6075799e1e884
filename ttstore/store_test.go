package ttstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connectfour/negamax"
	"github.com/domino14/connectfour/zobrist"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func entries(tt *negamax.TranspositionTable) map[uint64]negamax.TableEntry {
	m := map[uint64]negamax.TableEntry{}
	tt.Range(func(zval uint64, te negamax.TableEntry) bool {
		m[zval] = te
		return true
	})
	return m
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tt.db")

	s := negamax.NewSolver(zobrist.New(zobrist.DefaultSeed))
	b := s.NewBoard()
	is.NoErr(b.ApplyMoves("4453"))
	want := s.Search(b, 6)
	is.True(s.TranspositionTable().Len() > 0)

	store, err := Open(ctx, path)
	is.NoErr(err)
	n, err := store.Save(ctx, s.TranspositionTable(), zobrist.DefaultSeed)
	is.NoErr(err)
	is.Equal(n, s.TranspositionTable().Len())
	is.NoErr(store.Close())

	store, err = Open(ctx, path)
	is.NoErr(err)
	defer store.Close()
	seed, ok, err := store.Seed(ctx)
	is.NoErr(err)
	is.True(ok)
	is.Equal(seed, uint64(zobrist.DefaultSeed))

	loaded := negamax.NewSolver(zobrist.New(zobrist.DefaultSeed))
	n, err = store.Load(ctx, loaded.TranspositionTable(), zobrist.DefaultSeed)
	is.NoErr(err)
	is.Equal(n, s.TranspositionTable().Len())
	is.Equal(entries(loaded.TranspositionTable()), entries(s.TranspositionTable()))

	// the root is already in the table, so no children are searched.
	lb := loaded.NewBoard()
	is.NoErr(lb.ApplyMoves("4453"))
	is.Equal(loaded.Search(lb, 6), want)
	is.Equal(loaded.NodesVisited(), uint64(1))
}

func TestSaveReplaces(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "tt.db"))
	is.NoErr(err)
	defer store.Close()

	tt := negamax.NewTranspositionTable(0)
	for i := uint64(1); i <= 20; i++ {
		tt.Restore(i, negamax.NewTableEntry(i, i, int(i), 3, negamax.TTExact))
	}
	_, err = store.Save(ctx, tt, 9)
	is.NoErr(err)

	tt.Reset(0)
	tt.Restore(100, negamax.NewTableEntry(1, 1, -10004, 4, negamax.TTLower))
	n, err := store.Save(ctx, tt, 9)
	is.NoErr(err)
	is.Equal(n, 1)

	into := negamax.NewTranspositionTable(0)
	n, err = store.Load(ctx, into, 9)
	is.NoErr(err)
	is.Equal(n, 1)
	is.Equal(entries(into), entries(tt))
}

func TestSeedMismatch(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "tt.db"))
	is.NoErr(err)
	defer store.Close()

	tt := negamax.NewTranspositionTable(0)
	tt.Restore(5, negamax.NewTableEntry(1, 1, 0, 1, negamax.TTExact))
	_, err = store.Save(ctx, tt, 1)
	is.NoErr(err)

	into := negamax.NewTranspositionTable(0)
	_, err = store.Load(ctx, into, 2)
	is.True(errors.Is(err, ErrSeedMismatch))
	is.Equal(into.Len(), 0)
}

func TestLoadEmptyStore(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "tt.db"))
	is.NoErr(err)
	defer store.Close()

	_, ok, err := store.Seed(ctx)
	is.NoErr(err)
	is.True(!ok)
	n, err := store.Load(ctx, negamax.NewTranspositionTable(0), 1)
	is.NoErr(err)
	is.Equal(n, 0)
}

func TestSolverHelpers(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tt.db")

	s := negamax.NewSolver(zobrist.New(99))
	b := s.NewBoard()
	s.Search(b, 5)
	is.NoErr(SaveSolver(ctx, path, s))

	same := negamax.NewSolver(zobrist.New(99))
	is.NoErr(LoadSolver(ctx, path, same))
	is.Equal(same.TranspositionTable().Len(), s.TranspositionTable().Len())

	other := negamax.NewSolver(zobrist.New(100))
	err := LoadSolver(ctx, path, other)
	is.True(errors.Is(err, ErrSeedMismatch))
}

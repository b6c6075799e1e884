package negamax

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestParallelAgreesWithBestMove(t *testing.T) {
	is := is.New(t)
	rng := newRNG(3)
	for trial := 0; trial < 10; trial++ {
		seq, b := setUpSolver("")
		randomPrefix(rng, b, rng.Intn(16))
		if b.LastMoveWon() {
			continue
		}
		moves := b.MoveString()
		col, score, err := seq.BestMove(b, 5)
		is.NoErr(err)

		par, pb := setUpSolver(moves)
		par.SetThreads(4)
		pcol, pscore, err := par.ParallelBestMove(context.Background(), pb, 5)
		is.NoErr(err)
		is.Equal(pcol, col)
		is.Equal(pscore, score)
		is.Equal(pb.MoveString(), moves)
	}
}

func TestParallelSingleThreadFallsBack(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver("121212")
	s.SetThreads(1)
	col, score, err := s.ParallelBestMove(context.Background(), b, 3)
	is.NoErr(err)
	is.Equal(col, 0)
	is.Equal(score, WinScore+2)
}

func TestParallelCancelled(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver("")
	s.SetThreads(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := s.ParallelBestMove(ctx, b, 6)
	is.True(errors.Is(err, context.Canceled))
}

func TestParallelGameOver(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver("1212121")
	s.SetThreads(2)
	_, _, err := s.ParallelBestMove(context.Background(), b, 3)
	is.True(errors.Is(err, ErrGameOver))
}

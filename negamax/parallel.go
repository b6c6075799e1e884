package negamax

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectfour/board"
)

// ParallelBestMove searches the root moves concurrently, each on its own copy
// of b, sharing the transposition table. Every root move gets a full window,
// so it does more work per move than BestMove, but it returns the same column
// and score.
func (s *Solver) ParallelBestMove(ctx context.Context, b *board.Board, depth int) (int, int, error) {
	if s.threads < 2 {
		return s.BestMove(b, depth)
	}
	if b.LastMoveWon() || b.IsFull() {
		return -1, 0, ErrGameOver
	}
	depth = max(1, clampDepth(b, depth))
	tstart := time.Now()

	s.ttable.SetMultiThreadedMode()
	defer s.ttable.SetSingleThreadedMode()

	log.Debug().Int("threads", s.threads).Int("depth", depth).Msg("parallel-root-search")

	s.nodes.Add(1)
	children := b.LegalMoves()
	plays := make([]RootPlay, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for idx, child := range children {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			value, _ := s.playUndo(b.Copy(), child, depth, -Infinity, Infinity, s.variant())
			plays[idx] = RootPlay{Column: child, Value: value, Bound: "exact"}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return -1, 0, err
	}

	best := 0
	for idx := range plays {
		if plays[idx].Value > plays[best].Value {
			best = idx
		}
	}
	if s.transpositionTableOptim {
		s.storeResult(b, depth, plays[best].Value, -Infinity, Infinity)
	}
	log.Debug().
		Int("column", plays[best].Column).
		Int("score", plays[best].Value).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("parallel-solve-returning")

	s.writeReport(b, depth, plays, best, time.Since(tstart))
	return plays[best].Column, plays[best].Value, nil
}

package negamax

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
)

// IterativelyDeepen runs BestMove at depths 1 through maxPlies, keeping the
// table between iterations. It stops early once a win or loss is proven. The
// context is only checked between iterations; if it is cancelled after at
// least one iteration finished, that iteration's answer is returned.
func (s *Solver) IterativelyDeepen(ctx context.Context, b *board.Board, maxPlies int) (int, int, error) {
	if b.LastMoveWon() || b.IsFull() {
		return -1, 0, ErrGameOver
	}
	maxPlies = max(1, clampDepth(b, maxPlies))
	bestCol, bestVal := -1, 0
	for p := 1; p <= maxPlies; p++ {
		if err := ctx.Err(); err != nil {
			if bestCol >= 0 {
				log.Info().Int("plies", p-1).Msg("deepening-interrupted")
				return bestCol, bestVal, nil
			}
			return -1, 0, err
		}
		log.Info().Int("plies", p).Msg("deepening-iteratively")
		col, val, err := s.BestMove(b, p)
		if err != nil {
			return -1, 0, err
		}
		bestCol, bestVal = col, val
		log.Info().Int("score", val).Int("ply", p).Int("column", col).Msg("best-val")
		if IsDecisive(val) {
			break
		}
	}
	return bestCol, bestVal, nil
}

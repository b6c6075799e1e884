package negamax

import (
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/common"
)

// PrincipalVariation returns the line of best play from b: the best move at
// depth, then the best reply at depth-1, and so on until the line ends the
// game or runs out of depth. Each step reuses the table the previous one
// filled, so the line costs little more than the first search.
func (s *Solver) PrincipalVariation(b *board.Board, depth int) (common.PVLine, error) {
	if b.LastMoveWon() || b.IsFull() {
		return common.PVLine{}, ErrGameOver
	}
	return s.principalVariation(b, max(1, clampDepth(b, depth))), nil
}

func (s *Solver) principalVariation(b *board.Board, depth int) common.PVLine {
	var line common.PVLine
	if depth == 0 || b.LastMoveWon() || b.IsFull() {
		return line
	}
	plays, best := s.searchRoot(b, depth)
	col := plays[best].Column
	if err := b.ApplyMove(col); err != nil {
		panic(err)
	}
	rest := s.principalVariation(b, depth-1)
	b.UnapplyMove()
	line.Update(col, rest, plays[best].Value)
	return line
}

package negamax

import (
	"math/bits"

	"github.com/domino14/connectfour/board"
)

// EvalFunc scores a non-terminal leaf from the point of view of the side to
// move. An evaluator must be antisymmetric: swapping the sides negates it.
type EvalFunc func(b *board.Board) int

// Points per piece for each column; the middle column is worth the most.
var centerWeights = [board.NumCols]int{0, 0, 2, 3, 2, 0, 0}

// CenterEval is the default evaluation. It only counts pieces near the
// middle of the board, which take part in the most possible lines.
func CenterEval(b *board.Board) int {
	return centerWeight(b.PlayerMask()) - centerWeight(b.OpponentMask())
}

func centerWeight(m uint64) int {
	w := 0
	for c, cw := range centerWeights {
		if cw == 0 {
			continue
		}
		w += cw * bits.OnesCount64(m&board.ColumnMasks[c])
	}
	return w
}

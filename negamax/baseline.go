package negamax

import (
	"github.com/domino14/connectfour/board"
)

// PlainNegamax searches every node to the given depth without pruning or
// the transposition table. It is slow; it exists to check the faster
// searches against.
func (s *Solver) PlainNegamax(b *board.Board, depth int) int {
	return s.plainNegamax(b, clampDepth(b, depth))
}

// AlphaBeta is negamax with alpha-beta pruning but without the table.
func (s *Solver) AlphaBeta(b *board.Board, depth int) int {
	return s.alphaBeta(b, clampDepth(b, depth), -Infinity, Infinity)
}

func (s *Solver) plainNegamax(b *board.Board, depth int) int {
	s.nodes.Add(1)
	if v, ok := s.terminal(b, depth); ok {
		return v
	}
	children := b.LegalMoves()
	bestValue := -Infinity
	for idx, child := range children {
		value, won := s.playUndo(b, child, depth, -Infinity, Infinity, variantPlain)
		bestValue = max(bestValue, value)
		if won {
			s.pruned.Add(uint64(len(children) - idx - 1))
			break
		}
	}
	return bestValue
}

// alphaBeta:
// α is a lower bound on this node's value; the best the side to move has
// found so far. β is the upper bound from the ancestors; the most the
// opponent would let us get before choosing something else.
//
// If α >= β the window is empty. The rest of the children can't affect the
// principal variation, so prune.
func (s *Solver) alphaBeta(b *board.Board, depth, α, β int) int {
	s.nodes.Add(1)
	if v, ok := s.terminal(b, depth); ok {
		return v
	}
	children := b.LegalMoves()
	bestValue := -Infinity
	for idx, child := range children {
		value, won := s.playUndo(b, child, depth, α, β, variantAlphaBeta)
		bestValue = max(bestValue, value)
		if won {
			s.pruned.Add(uint64(len(children) - idx - 1))
			break
		}
		α = max(α, bestValue)
		if α >= β {
			s.pruned.Add(uint64(len(children) - idx - 1))
			break
		}
	}
	return bestValue
}

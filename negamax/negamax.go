package negamax

import (
	"github.com/domino14/connectfour/board"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    alphaOrig := α

    (* Transposition Table Lookup; node is the lookup key for ttEntry *)
    ttEntry := transpositionTableLookup(node)
    if ttEntry.is_valid and ttEntry.depth ≥ depth then
        if ttEntry.flag = EXACT then
            return ttEntry.value
        else if ttEntry.flag = LOWERBOUND then
            α := max(α, ttEntry.value)
        else if ttEntry.flag = UPPERBOUND then
            β := min(β, ttEntry.value)

        if α ≥ β then
            return ttEntry.value

    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    value := −∞
    for each child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break
    ...store value with flag relative to alphaOrig and β
    return value
**/

const (
	WinScore  = 10000
	LossScore = -WinScore
	DrawScore = 0

	// Infinity is above any score a search can return. Terminal scores
	// move away from WinScore/LossScore by at most board.NumCells.
	Infinity = 32000
)

// variant picks which recursion playUndo descends into.
type variant int

const (
	variantTT variant = iota
	variantAlphaBeta
	variantPlain
)

// lossScore is the value of a node whose opponent just connected four. The
// more plies were still left to search, the sooner the loss, and the lower
// the score.
func lossScore(depth int) int {
	return LossScore - depth
}

// winScore is the value of a node where the side to move connects four on
// its next drop. It is the negation of lossScore one ply down.
func winScore(depth int) int {
	return WinScore + depth - 1
}

// IsDecisive reports whether score is a proven win or loss rather than a
// draw or a heuristic value.
func IsDecisive(score int) bool {
	return score >= WinScore || score <= LossScore
}

// terminal handles the cases that end the recursion before any move is
// generated.
func (s *Solver) terminal(b *board.Board, depth int) (int, bool) {
	if b.LastMoveWon() {
		// The opponent's last move won, so we lost.
		return lossScore(depth), true
	}
	if b.IsFull() {
		return DrawScore, true
	}
	if depth == 0 {
		return s.eval(b), true
	}
	return 0, false
}

// playUndo plays column c, scores the resulting position and takes the move
// back. The returned value is from the point of view of the side that
// played c; won is set when c connected four.
func (s *Solver) playUndo(b *board.Board, c, depth, α, β int, v variant) (int, bool) {
	if err := b.ApplyMove(c); err != nil {
		// candidates come from LegalMoves.
		panic(err)
	}
	defer b.UnapplyMove()

	if b.LastMoveWon() {
		return winScore(depth), true
	}
	switch v {
	case variantPlain:
		return -s.plainNegamax(b, depth-1), false
	case variantAlphaBeta:
		return -s.alphaBeta(b, depth-1, -β, -α), false
	}
	return -s.negamax(b, depth-1, -β, -α), false
}

// negamax is the transposition-table accelerated alpha-beta search.
func (s *Solver) negamax(b *board.Board, depth, α, β int) int {
	s.nodes.Add(1)
	if v, ok := s.terminal(b, depth); ok {
		return v
	}

	alphaOrig, betaOrig := α, β
	nodeKey := b.Hash()
	ttEntry := s.ttable.lookup(nodeKey, b.PlayerMask(), b.OccupiedMask())
	if ttEntry.valid() && int(ttEntry.depth()) >= depth {
		s.ttHits.Add(1)
		score := int(ttEntry.score)
		switch ttEntry.flag() {
		case TTExact:
			return score
		case TTLower:
			α = max(α, score)
		case TTUpper:
			β = min(β, score)
		}
		if α >= β {
			s.storeResult(b, depth, score, alphaOrig, betaOrig)
			return score
		}
	}

	children := b.LegalMoves()
	bestValue := -Infinity
	for idx, child := range children {
		value, won := s.playUndo(b, child, depth, α, β, variantTT)
		bestValue = max(bestValue, value)
		if won {
			// Nothing beats winning right now.
			s.pruned.Add(uint64(len(children) - idx - 1))
			break
		}
		α = max(α, bestValue)
		if α >= β {
			s.pruned.Add(uint64(len(children) - idx - 1))
			break // beta cut-off
		}
	}
	s.storeResult(b, depth, bestValue, alphaOrig, betaOrig)
	return bestValue
}

// storeResult classifies value against the window the node was called with,
// before any narrowing from the table.
func (s *Solver) storeResult(b *board.Board, depth, value, alphaOrig, betaOrig int) {
	var flag uint8
	if value <= alphaOrig {
		flag = TTUpper
	} else if value >= betaOrig {
		flag = TTLower
	} else {
		flag = TTExact
	}
	s.ttable.store(b.Hash(), NewTableEntry(b.PlayerMask(), b.OccupiedMask(), value, depth, flag))
}

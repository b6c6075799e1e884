package negamax

import (
	"errors"
	"io"
	"math"
	"math/bits"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/zobrist"
)

var (
	ErrGameOver = errors.New("game is already over")
)

type Solver struct {
	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable
	eval    EvalFunc

	transpositionTableOptim bool
	ttFractionOfMem         float64
	threads                 int

	// Counters are never reset between searches; see ResetStats.
	nodes  atomic.Uint64
	pruned atomic.Uint64
	ttHits atomic.Uint64

	logStream io.Writer
}

// RootPlay is the value of one root move. Once a good move is known, the
// others are only searched far enough to prove they are no better, so their
// Value is an upper bound.
type RootPlay struct {
	Column int    `yaml:"column"`
	Value  int    `yaml:"value"`
	Bound  string `yaml:"bound"`
}

// NewSolver creates a solver with an empty table. Boards searched by it
// should come from NewBoard so that they hash with the same table.
func NewSolver(z *zobrist.Zobrist) *Solver {
	s := new(Solver)
	s.Init(z)
	return s
}

// Init initializes the solver
func (s *Solver) Init(z *zobrist.Zobrist) {
	s.zobrist = z
	s.eval = CenterEval
	s.transpositionTableOptim = true
	s.threads = int(math.Max(1, float64(runtime.NumCPU()-1)))
	s.ttable = NewTranspositionTable(s.ttFractionOfMem)
}

func (s *Solver) NewBoard() *board.Board {
	return board.New(s.zobrist)
}

func (s *Solver) Zobrist() *zobrist.Zobrist {
	return s.zobrist
}

// SetEvaluator replaces the leaf evaluation. A nil f restores CenterEval.
func (s *Solver) SetEvaluator(f EvalFunc) {
	if f == nil {
		f = CenterEval
	}
	s.eval = f
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetTranspositionTable(tt *TranspositionTable) {
	s.ttable = tt
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

// SetTTFractionOfMem sets how much system memory a cleared table pre-sizes
// itself for.
func (s *Solver) SetTTFractionOfMem(f float64) {
	s.ttFractionOfMem = f
}

func (s *Solver) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Solver) Threads() int {
	return s.threads
}

// SetLogStream makes every root search write a YAML report to w.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Solver) NodesVisited() uint64 {
	return s.nodes.Load()
}

func (s *Solver) BranchesPruned() uint64 {
	return s.pruned.Load()
}

func (s *Solver) TTHits() uint64 {
	return s.ttHits.Load()
}

func (s *Solver) ResetStats() {
	s.nodes.Store(0)
	s.pruned.Store(0)
	s.ttHits.Store(0)
}

// ClearTT empties the transposition table.
func (s *Solver) ClearTT() {
	s.ttable.Reset(s.ttFractionOfMem)
}

func (s *Solver) variant() variant {
	if s.transpositionTableOptim {
		return variantTT
	}
	return variantAlphaBeta
}

// clampDepth bounds depth by the number of empty cells. A deeper search
// can't see anything more, and the bound keeps depths within what the table
// can store.
func clampDepth(b *board.Board, depth int) int {
	empty := board.NumCells - bits.OnesCount64(b.OccupiedMask())
	return max(0, min(depth, empty))
}

// Search returns the value of b for the side to move, searching depth plies.
func (s *Solver) Search(b *board.Board, depth int) int {
	depth = clampDepth(b, depth)
	if !s.transpositionTableOptim {
		return s.alphaBeta(b, depth, -Infinity, Infinity)
	}
	return s.negamax(b, depth, -Infinity, Infinity)
}

// BestMove searches every root move and returns the lowest-numbered column
// with the best value, along with that value.
func (s *Solver) BestMove(b *board.Board, depth int) (int, int, error) {
	if b.LastMoveWon() || b.IsFull() {
		return -1, 0, ErrGameOver
	}
	depth = max(1, clampDepth(b, depth))
	tstart := time.Now()
	nodesBefore := s.NodesVisited()

	plays, best := s.searchRoot(b, depth)

	log.Debug().
		Int("depth", depth).
		Int("column", plays[best].Column).
		Int("score", plays[best].Value).
		Uint64("nodes", s.NodesVisited()-nodesBefore).
		Uint64("ttable-hits", s.ttable.Hits()).
		Uint64("ttable-collisions", s.ttable.Collisions()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")

	s.writeReport(b, depth, plays, best, time.Since(tstart))
	return plays[best].Column, plays[best].Value, nil
}

func (s *Solver) searchRoot(b *board.Board, depth int) ([]RootPlay, int) {
	s.nodes.Add(1)
	α := -Infinity
	β := Infinity
	children := b.LegalMoves()
	plays := make([]RootPlay, 0, len(children))
	best := 0
	bestValue := -Infinity
	for idx, child := range children {
		value, won := s.playUndo(b, child, depth, α, β, s.variant())
		rp := RootPlay{Column: child, Value: value, Bound: "exact"}
		if value <= α {
			rp.Bound = "upper"
		}
		plays = append(plays, rp)
		if value > bestValue {
			bestValue = value
			best = idx
		}
		if won {
			s.pruned.Add(uint64(len(children) - idx - 1))
			break
		}
		α = max(α, bestValue)
	}
	if s.transpositionTableOptim {
		s.storeResult(b, depth, bestValue, -Infinity, Infinity)
	}
	return plays, best
}

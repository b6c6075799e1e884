// Package analyzer solves many positions in a batch. Each input line is a
// move string in column digits; the lines are sharded over several
// solvers.
package analyzer

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/negamax"
	"github.com/domino14/connectfour/zobrist"
)

type Options struct {
	Depth           int
	Threads         int
	Seed            uint64
	TTFractionOfMem float64
}

// Result is the analysis of one input line. Column is 1-based, like the
// input, and 0 when the line could not be solved.
type Result struct {
	Line   int    `json:"line"`
	Moves  string `json:"moves"`
	Column int    `json:"column,omitempty"`
	Score  int    `json:"score"`
	Nodes  uint64 `json:"nodes"`
	Error  string `json:"error,omitempty"`
	err    error
}

func (r Result) Err() error {
	return r.err
}

type job struct {
	line  int
	moves string
}

type Analyzer struct {
	options Options
	zobrist *zobrist.Zobrist
}

func NewAnalyzer(options Options) *Analyzer {
	an := &Analyzer{}
	an.options = options
	if an.options.Threads < 1 {
		an.options.Threads = 1
	}
	if an.options.Depth < 1 {
		an.options.Depth = 1
	}
	an.zobrist = zobrist.New(options.Seed)
	return an
}

// worker owns one solver and board; lines are only ever handed to the
// worker their hash picks, so solvers are never shared.
type worker struct {
	solver *negamax.Solver
	board  *board.Board
	depth  int
}

func (an *Analyzer) newWorker() *worker {
	s := negamax.NewSolver(an.zobrist)
	s.SetTTFractionOfMem(an.options.TTFractionOfMem)
	return &worker{solver: s, board: s.NewBoard(), depth: an.options.Depth}
}

func (w *worker) analyze(j job) Result {
	res := Result{Line: j.line, Moves: j.moves}
	w.board.Reset()
	// Each line starts from an empty table so a result doesn't depend on
	// which lines shared its worker.
	w.solver.ClearTT()
	w.solver.ResetStats()
	if err := w.board.ApplyMoves(j.moves); err != nil {
		res.err = err
		res.Error = err.Error()
		return res
	}
	col, score, err := w.solver.BestMove(w.board, w.depth)
	res.Nodes = w.solver.NodesVisited()
	if err != nil {
		res.err = err
		res.Error = err.Error()
		return res
	}
	res.Column = col + 1
	res.Score = score
	return res
}

// Analyze reads every line of r and solves it. Blank lines and lines
// starting with # are skipped. A line that can't be solved gets a Result
// with its error; only a read error or a cancelled context fails the whole
// batch.
func (an *Analyzer) Analyze(ctx context.Context, r io.Reader) (*Summary, error) {
	tstart := time.Now()
	numWorkers := an.options.Threads
	log.Info().Int("workers", numWorkers).Int("depth", an.options.Depth).Msg("analyzer-starting")

	g, ctx := errgroup.WithContext(ctx)
	jobChans := make([]chan job, numWorkers)
	resultsChan := make(chan Result, numWorkers)
	var workersWg sync.WaitGroup
	for i := range numWorkers {
		jobChans[i] = make(chan job, 128)
		workersWg.Add(1)
		g.Go(func() error {
			defer workersWg.Done()
			w := an.newWorker()
			for j := range jobChans[i] {
				if ctx.Err() != nil {
					// keep draining so the dispatcher never blocks.
					continue
				}
				resultsChan <- w.analyze(j)
			}
			return nil
		})
	}
	go func() {
		workersWg.Wait()
		close(resultsChan)
	}()

	// Dispatcher
	g.Go(func() error {
		defer func() {
			for _, ch := range jobChans {
				close(ch)
			}
		}()
		scanner := bufio.NewScanner(r)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			workerIndex := xxhash.Sum64String(text) % uint64(numWorkers)
			select {
			case jobChans[workerIndex] <- job{line: line, moves: text}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return scanner.Err()
	})

	var results []Result
	for res := range resultsChan {
		results = append(results, res)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b Result) int {
		return a.Line - b.Line
	})
	sum := newSummary(results, time.Since(tstart))
	log.Info().Int("positions", len(results)).
		Int("errors", sum.Errors).
		Float64("time-elapsed-sec", sum.Elapsed.Seconds()).
		Msg("analyzer-done")
	return sum, nil
}

// WriteJSON writes the results as a JSON array.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Results)
}

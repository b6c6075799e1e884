package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/negamax"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) depthArg(cmd *shellcmd) (int, error) {
	if len(cmd.args) == 0 {
		return sc.config.GetInt(config.ConfigDepth), nil
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return 0, fmt.Errorf("bad depth %q", cmd.args[0])
	}
	if depth < 0 {
		return 0, errors.New("depth must not be negative")
	}
	return depth, nil
}

func (sc *ShellController) gameResult() string {
	if sc.board.LastMoveWon() {
		// the side that made the last move
		if sc.board.MoveCount()%2 == 1 {
			return "X wins"
		}
		return "O wins"
	}
	if sc.board.IsFull() {
		return "draw"
	}
	return ""
}

func (sc *ShellController) boardText() string {
	s := sc.board.ToDisplayText()
	if r := sc.gameResult(); r != "" {
		s += "\nGame over: " + r
	}
	return s
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.board.Reset()
	if len(cmd.args) > 0 {
		if err := sc.board.ApplyMoves(strings.Join(cmd.args, "")); err != nil {
			return nil, err
		}
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <columns>, e.g. play 4453")
	}
	if sc.gameResult() != "" {
		return nil, errors.New("the game is over; `undo` or `new` first")
	}
	if err := sc.board.ApplyMoves(strings.Join(cmd.args, "")); err != nil {
		return nil, err
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	n := 1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad number of moves %q", cmd.args[0])
		}
	}
	if n > sc.board.MoveCount() {
		return nil, fmt.Errorf("only %d moves have been played", sc.board.MoveCount())
	}
	for range n {
		sc.board.UnapplyMove()
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	legal := lo.Map(sc.board.LegalMoves(), func(c, _ int) string {
		return strconv.Itoa(c + 1)
	})
	played := sc.board.MoveString()
	if played == "" {
		played = "(none)"
	}
	return msg(fmt.Sprintf("played: %s\nlegal:  %s", played, strings.Join(legal, " "))), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.boardText()), nil
}

func describeScore(score int) string {
	switch {
	case score >= negamax.WinScore:
		return "win"
	case score <= negamax.LossScore:
		return "loss"
	}
	return "heuristic"
}

func (sc *ShellController) searchStats(elapsed time.Duration) string {
	return fmt.Sprintf("nodes %d, pruned %d, tt-hits %d, %.3fs",
		sc.solver.NodesVisited(), sc.solver.BranchesPruned(), sc.solver.TTHits(), elapsed.Seconds())
}

// search scores the position without choosing a move. -tt false turns the
// table off; -plain true uses plain negamax.
func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	depth, err := sc.depthArg(cmd)
	if err != nil {
		return nil, err
	}
	sc.solver.ResetStats()
	tstart := time.Now()
	var score int
	switch {
	case cmd.options["plain"] == "true":
		score = sc.solver.PlainNegamax(sc.board, depth)
	case cmd.options["tt"] == "false":
		score = sc.solver.AlphaBeta(sc.board, depth)
	default:
		score = sc.solver.Search(sc.board, depth)
	}
	return msg(fmt.Sprintf("score %d (%s) at depth %d\n%s",
		score, describeScore(score), depth, sc.searchStats(time.Since(tstart)))), nil
}

// best finds the best column. -threads n searches the root in parallel.
func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	depth, err := sc.depthArg(cmd)
	if err != nil {
		return nil, err
	}
	threads := 1
	if t, ok := cmd.options["threads"]; ok {
		threads, err = strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("bad threads %q", t)
		}
	}
	sc.solver.ResetStats()
	tstart := time.Now()
	var col, score int
	if threads > 1 {
		prev := sc.solver.Threads()
		sc.solver.SetThreads(threads)
		defer sc.solver.SetThreads(prev)
		col, score, err = sc.solver.ParallelBestMove(context.Background(), sc.board, depth)
	} else {
		col, score, err = sc.solver.BestMove(sc.board, depth)
	}
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("best column %d, score %d (%s) at depth %d\n%s",
		col+1, score, describeScore(score), depth, sc.searchStats(time.Since(tstart)))), nil
}

// deepen runs iterative deepening. -maxtime seconds stops after the
// iteration running when the time is up.
func (sc *ShellController) deepen(cmd *shellcmd) (*Response, error) {
	depth, err := sc.depthArg(cmd)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if mt, ok := cmd.options["maxtime"]; ok {
		secs, err := strconv.Atoi(mt)
		if err != nil {
			return nil, fmt.Errorf("bad maxtime %q", mt)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
	}
	sc.solver.ResetStats()
	tstart := time.Now()
	col, score, err := sc.solver.IterativelyDeepen(ctx, sc.board, depth)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("best column %d, score %d (%s)\n%s",
		col+1, score, describeScore(score), sc.searchStats(time.Since(tstart)))), nil
}

func (sc *ShellController) pv(cmd *shellcmd) (*Response, error) {
	depth, err := sc.depthArg(cmd)
	if err != nil {
		return nil, err
	}
	line, err := sc.solver.PrincipalVariation(sc.board, depth)
	if err != nil {
		return nil, err
	}
	return msg(line.String()), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	tt := sc.solver.TranspositionTable()
	var b strings.Builder
	fmt.Fprintf(&b, "nodes visited:   %d\n", sc.solver.NodesVisited())
	fmt.Fprintf(&b, "branches pruned: %d\n", sc.solver.BranchesPruned())
	fmt.Fprintf(&b, "tt hits:         %d\n", sc.solver.TTHits())
	fmt.Fprintf(&b, "tt entries:      %d (stored %d, lookups %d, collisions %d)",
		tt.Len(), tt.Created(), tt.Lookups(), tt.Collisions())
	return msg(b.String()), nil
}

func (sc *ShellController) clearTT(cmd *shellcmd) (*Response, error) {
	sc.solver.ClearTT()
	return msg("transposition table cleared"), nil
}

package analyzer

import (
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/connectfour/negamax"
	"github.com/domino14/connectfour/stats"
)

const (
	histogramBins  = 10
	histogramWidth = 50
)

type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeUndecided Outcome = "undecided"
)

func outcome(score int) Outcome {
	switch {
	case score >= negamax.WinScore:
		return OutcomeWin
	case score <= negamax.LossScore:
		return OutcomeLoss
	}
	return OutcomeUndecided
}

// Summary collects the results of a batch, in input order.
type Summary struct {
	Results  []Result
	Errors   int
	Outcomes map[Outcome]int
	Nodes    stats.Statistic
	Scores   stats.Statistic
	Elapsed  time.Duration
}

func newSummary(results []Result, elapsed time.Duration) *Summary {
	s := &Summary{Results: results, Elapsed: elapsed}
	solved := lo.Filter(results, func(r Result, _ int) bool {
		return r.err == nil
	})
	s.Errors = len(results) - len(solved)
	s.Outcomes = lo.CountValuesBy(solved, func(r Result) Outcome {
		return outcome(r.Score)
	})
	for _, r := range solved {
		s.Nodes.Push(float64(r.Nodes))
		if outcome(r.Score) == OutcomeUndecided {
			s.Scores.Push(float64(r.Score))
		}
	}
	return s
}

// WriteReport prints per-line results followed by aggregate statistics and
// a histogram of the nodes each position took.
func (s *Summary) WriteReport(w io.Writer) error {
	for _, r := range s.Results {
		var err error
		if r.err != nil {
			_, err = fmt.Fprintf(w, "%5d  %-20s  error: %s\n", r.Line, r.Moves, r.Error)
		} else {
			_, err = fmt.Fprintf(w, "%5d  %-20s  column %d  score %6d  nodes %d\n",
				r.Line, r.Moves, r.Column, r.Score, r.Nodes)
		}
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\nanalyzed %d positions (%d errors) in %s\n",
		len(s.Results), s.Errors, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "wins %d  losses %d  undecided %d\n",
		s.Outcomes[OutcomeWin], s.Outcomes[OutcomeLoss], s.Outcomes[OutcomeUndecided])
	if s.Nodes.Iterations() == 0 {
		return nil
	}
	fmt.Fprintf(w, "nodes: mean %.1f ± %.1f (95%%), min %.0f, max %.0f\n",
		s.Nodes.Mean(), s.Nodes.ConfidenceInterval(95), s.Nodes.Min(), s.Nodes.Max())
	if s.Scores.Iterations() > 0 {
		fmt.Fprintf(w, "undecided scores: mean %.2f, stdev %.2f\n", s.Scores.Mean(), s.Scores.Stdev())
	}

	nodes := lo.FilterMap(s.Results, func(r Result, _ int) (float64, bool) {
		return float64(r.Nodes), r.err == nil
	})
	fmt.Fprintln(w, "\nnodes per position:")
	h := histogram.Hist(histogramBins, nodes)
	return histogram.Fprint(w, h, histogram.Linear(histogramWidth))
}

package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/negamax"
	"github.com/domino14/connectfour/zobrist"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

const input = `# a few positions
4453

121212
1212121
12a
1234567
4453
`

func analyze(t *testing.T, threads int) *Summary {
	an := NewAnalyzer(Options{Depth: 4, Threads: threads, Seed: zobrist.DefaultSeed})
	sum, err := an.Analyze(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	return sum
}

func TestAnalyze(t *testing.T) {
	is := is.New(t)
	sum := analyze(t, 3)
	is.Equal(len(sum.Results), 6)
	lines := []int{}
	for _, r := range sum.Results {
		lines = append(lines, r.Line)
	}
	is.Equal(lines, []int{2, 4, 5, 6, 7, 8})

	win := sum.Results[1]
	is.Equal(win.Moves, "121212")
	is.Equal(win.Column, 1)
	is.Equal(win.Score, negamax.WinScore+3)
	is.NoErr(win.Err())

	over := sum.Results[2]
	is.True(errors.Is(over.Err(), negamax.ErrGameOver))
	is.Equal(over.Column, 0)

	bad := sum.Results[3]
	is.True(errors.Is(bad.Err(), board.ErrIllegalMove))
	is.True(bad.Error != "")

	// duplicate lines give duplicate answers.
	is.Equal(sum.Results[0].Column, sum.Results[5].Column)
	is.Equal(sum.Results[0].Score, sum.Results[5].Score)
	is.Equal(sum.Results[0].Nodes, sum.Results[5].Nodes)

	is.Equal(sum.Errors, 2)
	is.Equal(sum.Outcomes[OutcomeWin], 1)
	is.Equal(sum.Nodes.Iterations(), 4)
}

func TestAnalyzeIndependentOfThreads(t *testing.T) {
	is := is.New(t)
	one := analyze(t, 1)
	many := analyze(t, 4)
	is.Equal(len(one.Results), len(many.Results))
	for i := range one.Results {
		is.Equal(one.Results[i].Line, many.Results[i].Line)
		is.Equal(one.Results[i].Column, many.Results[i].Column)
		is.Equal(one.Results[i].Score, many.Results[i].Score)
		is.Equal(one.Results[i].Nodes, many.Results[i].Nodes)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	an := NewAnalyzer(Options{Depth: 4, Threads: 2})
	_, err := an.Analyze(ctx, strings.NewReader(strings.Repeat("44\n", 500)))
	is.True(errors.Is(err, context.Canceled))
}

func TestWriteReport(t *testing.T) {
	is := is.New(t)
	sum := analyze(t, 2)
	var buf bytes.Buffer
	is.NoErr(sum.WriteReport(&buf))
	out := buf.String()
	is.True(strings.Contains(out, "analyzed 6 positions (2 errors)"))
	is.True(strings.Contains(out, "wins 1"))
	is.True(strings.Contains(out, "nodes per position:"))
	is.True(strings.Contains(out, "error: "))

	buf.Reset()
	is.NoErr(sum.WriteJSON(&buf))
	is.True(strings.Contains(buf.String(), `"moves": "121212"`))
}

package shell

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"best 8 -threads 4",
			&shellcmd{"best", []string{"8"}, map[string]string{"threads": "4"}},
			nil},
		{"undo",
			&shellcmd{"undo", nil, map[string]string{}},
			nil},
		{"search 6 -tt false -plain true ",
			&shellcmd{"search",
				[]string{"6"},
				map[string]string{"tt": "false", "plain": "true"}},
			nil,
		},
		{"play '4 4 5'",
			&shellcmd{"play", []string{"4 4 5"}, map[string]string{}},
			nil},
		{"deepen 12 -maxtime",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newTestController(t *testing.T) *ShellController {
	cfg := &config.Config{}
	if err := cfg.Load([]string{"--depth", "4", "--threads", "2", "--tt-fraction-of-mem", "0"}); err != nil {
		t.Fatal(err)
	}
	return newController(cfg)
}

func run(sc *ShellController, line string) (string, error) {
	resp, err := sc.standardModeSwitch(line, make(chan os.Signal, 1))
	if err != nil {
		return "", err
	}
	return resp.message, nil
}

func TestPlayAndUndo(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)

	out, err := run(sc, "play 4453")
	is.NoErr(err)
	is.True(strings.Contains(out, "4 plies played"))
	is.Equal(sc.board.MoveString(), "4453")

	// nothing is played if any move is bad.
	_, err = run(sc, "play 18")
	is.True(errors.Is(err, board.ErrIllegalMove))
	is.Equal(sc.board.MoveString(), "4453")

	_, err = run(sc, "undo 2")
	is.NoErr(err)
	is.Equal(sc.board.MoveString(), "44")

	_, err = run(sc, "undo 3")
	is.True(err != nil)

	out, err = run(sc, "moves")
	is.NoErr(err)
	is.Equal(out, "played: 44\nlegal:  1 2 3 4 5 6 7")

	_, err = run(sc, "new 121212")
	is.NoErr(err)
	out, err = run(sc, "play 1")
	is.NoErr(err)
	is.True(strings.Contains(out, "Game over: X wins"))
	_, err = run(sc, "play 2")
	is.True(err != nil)
}

func TestSearchCommands(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	_, err := run(sc, "new 121212")
	is.NoErr(err)

	out, err := run(sc, "best")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "best column 1, score 10003 (win) at depth 4"))

	out, err = run(sc, "best 3 -threads 2")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "best column 1, score 10002 (win)"))
	is.Equal(sc.solver.Threads(), 2)

	out, err = run(sc, "search 2 -tt false")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "score 10001 (win) at depth 2"))

	out, err = run(sc, "deepen 6")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "best column 1, score 10000 (win)"))

	out, err = run(sc, "pv 3")
	is.NoErr(err)
	is.Equal(out, "PV; val 10002\n1: column 1\n")

	_, err = run(sc, "search x")
	is.True(err != nil)

	out, err = run(sc, "stats")
	is.NoErr(err)
	is.True(strings.Contains(out, "tt entries:"))

	_, err = run(sc, "clear-tt")
	is.NoErr(err)
	is.Equal(sc.solver.TranspositionTable().Len(), 0)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out, err := run(sc, "help")
	is.NoErr(err)
	is.True(strings.Contains(out, "deepen [depth]"))
	out, err = run(sc, "help best")
	is.NoErr(err)
	is.True(strings.Contains(out, "-threads"))
	_, err = run(sc, "help nothing")
	is.True(err != nil)
	_, err = run(sc, "frobnicate")
	is.True(err != nil)
}

func TestExit(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	sig := make(chan os.Signal, 1)
	_, err := sc.standardModeSwitch("exit", sig)
	is.True(errors.Is(err, errQuit))
	is.Equal(len(sig), 1)
}

func TestAutocomplete(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	c := NewShellCompleter(sc)

	matches, n := c.Do([]rune("de"), 2)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("epen")})

	matches, _ = c.Do([]rune("search 4 -tt "), 13)
	is.Equal(matches, [][]rune{[]rune("true"), []rune("false")})

	matches, _ = c.Do([]rune("best -"), 6)
	is.Equal(matches, [][]rune{[]rune("threads")})
}

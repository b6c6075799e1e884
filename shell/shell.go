package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/negamax"
	"github.com/domino14/connectfour/ttstore"
	"github.com/domino14/connectfour/zobrist"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("sending quit signal")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	solver *negamax.Solver
	board  *board.Board

	searchLog *os.File
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mconnectfour>\033[0m ",
		HistoryFile:     "/tmp/connectfour_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l

	if path := cfg.GetString(config.ConfigTTPersistencePath); path != "" {
		if err := ttstore.LoadSolver(context.Background(), path, sc.solver); err != nil {
			log.Err(err).Str("path", path).Msg("tt-load-failed")
		}
	}
	if path := cfg.GetString(config.ConfigSearchLogPath); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Err(err).Str("path", path).Msg("search-log-open-failed")
		} else {
			sc.searchLog = f
			sc.solver.SetLogStream(f)
		}
	}
	return sc
}

// Cleanup saves the transposition table, if configured, and closes the
// search log.
func (sc *ShellController) Cleanup() {
	if path := sc.config.GetString(config.ConfigTTPersistencePath); path != "" {
		if err := ttstore.SaveSolver(context.Background(), path, sc.solver); err != nil {
			log.Err(err).Str("path", path).Msg("tt-save-failed")
		}
	}
	if sc.searchLog != nil {
		sc.searchLog.Close()
	}
}

// newController builds everything but the terminal.
func newController(cfg *config.Config) *ShellController {
	z := zobrist.New(cfg.GetUint64(config.ConfigZobristSeed))
	s := negamax.NewSolver(z)
	s.SetThreads(cfg.GetInt(config.ConfigThreads))
	s.SetTTFractionOfMem(cfg.GetFloat64(config.ConfigTTFractionOfMem))
	return &ShellController{config: cfg, solver: s, board: s.NewBoard()}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "moves":
		return sc.moves(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "search":
		return sc.search(cmd)
	case "best":
		return sc.best(cmd)
	case "deepen":
		return sc.deepen(cmd)
	case "pv":
		return sc.pv(cmd)
	case "stats":
		return sc.stats(cmd)
	case "clear-tt":
		return sc.clearTT(cmd)
	default:
		log.Debug().Msgf("command %v not found", cmd.cmd)
		return nil, fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
	}
}

// Execute runs a single command line and prints its result.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if errors.Is(err, errQuit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

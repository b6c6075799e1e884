package shell

import (
	"slices"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
)

// ShellCompleter completes command names, options, option values and, for
// play, the columns that are still open.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commandNames = []string{
	"new", "play", "undo", "moves", "show", "search", "best", "deepen",
	"pv", "stats", "clear-tt", "help", "exit",
}

// commandOptions lists each command's options and the values they take.
// A nil value list means the value is free-form.
var commandOptions = map[string]map[string][]string{
	"search": {"tt": {"true", "false"}, "plain": {"true", "false"}},
	"best":   {"threads": {"1", "2", "4", "8"}},
	"deepen": {"maxtime": nil},
}

var helpTopics = []string{"play", "search", "best", "deepen"}

// Do implements readline.AutoCompleter.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		// unbalanced quotes
		fields = strings.Fields(text)
	}
	// the word under the cursor is empty after a space.
	if len(text) == 0 || text[len(text)-1] == ' ' {
		fields = append(fields, "")
	}
	prefix := fields[len(fields)-1]

	var candidates []string
	if len(fields) == 1 {
		candidates = commandNames
	} else {
		candidates = c.argCandidates(fields[0], fields[len(fields)-2], prefix)
	}

	matches := lo.FilterMap(candidates, func(cand string, _ int) ([]rune, bool) {
		if !strings.HasPrefix(cand, prefix) {
			return nil, false
		}
		return []rune(cand[len(prefix):]), true
	})
	return matches, len(prefix)
}

func (c *ShellController) openColumns() []string {
	return lo.Map(c.board.LegalMoves(), func(col, _ int) string {
		return strconv.Itoa(col + 1)
	})
}

// argCandidates returns what may follow prev in a command line for cmd.
func (c *ShellCompleter) argCandidates(cmd, prev, prefix string) []string {
	opts := commandOptions[cmd]
	if name, ok := strings.CutPrefix(prev, "-"); ok {
		if values, known := opts[name]; known {
			return values
		}
	}
	if strings.HasPrefix(prefix, "-") {
		names := lo.Keys(opts)
		slices.Sort(names)
		return lo.Map(names, func(name string, _ int) string {
			return "-" + name
		})
	}
	switch cmd {
	case "help":
		return helpTopics
	case "play":
		if c.sc.board == nil {
			return nil
		}
		// columns are typed as one run of digits, e.g. play 4453.
		return lo.Map(c.sc.openColumns(), func(col string, _ int) string {
			return prefix + col
		})
	}
	return nil
}

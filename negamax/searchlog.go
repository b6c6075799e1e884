package negamax

import (
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/board"
)

// searchReport is one YAML document of the search log.
type searchReport struct {
	Moves      string     `yaml:"moves"`
	Depth      int        `yaml:"depth"`
	Plays      []RootPlay `yaml:"plays"`
	BestColumn int        `yaml:"best_column"`
	Score      int        `yaml:"score"`
	Statistics struct {
		Nodes   uint64 `yaml:"nodes"`
		Pruned  uint64 `yaml:"pruned"`
		TTHits  uint64 `yaml:"tt_hits"`
		TTSize  int    `yaml:"tt_size"`
		Elapsed int64  `yaml:"elapsed_ms"`
	} `yaml:"statistics"`
}

func (s *Solver) writeReport(b *board.Board, depth int, plays []RootPlay, best int, elapsed time.Duration) {
	if s.logStream == nil {
		return
	}
	r := &searchReport{
		Moves:      b.MoveString(),
		Depth:      depth,
		Plays:      plays,
		BestColumn: plays[best].Column,
		Score:      plays[best].Value,
	}
	r.Statistics.Nodes = s.NodesVisited()
	r.Statistics.Pruned = s.BranchesPruned()
	r.Statistics.TTHits = s.TTHits()
	r.Statistics.TTSize = s.ttable.Len()
	r.Statistics.Elapsed = elapsed.Milliseconds()

	if _, err := io.WriteString(s.logStream, "---\n"); err != nil {
		log.Err(err).Msg("search-log-write")
		return
	}
	enc := yaml.NewEncoder(s.logStream)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		log.Err(err).Msg("search-log-write")
	}
	enc.Close()
}

// search scores one position and prints the result with the search
// statistics.
//
//	search --depth 12 4453
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/negamax"
	"github.com/domino14/connectfour/ttstore"
	"github.com/domino14/connectfour/zobrist"
)

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	s := negamax.NewSolver(zobrist.New(cfg.GetUint64(config.ConfigZobristSeed)))
	s.SetTTFractionOfMem(cfg.GetFloat64(config.ConfigTTFractionOfMem))
	s.ClearTT()

	ttPath := cfg.GetString(config.ConfigTTPersistencePath)
	if ttPath != "" {
		if err := ttstore.LoadSolver(ctx, ttPath, s); err != nil {
			// a stale table only costs time.
			log.Err(err).Str("path", ttPath).Msg("tt-load-failed")
		}
	}
	if p := cfg.GetString(config.ConfigSearchLogPath); p != "" {
		f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		s.SetLogStream(f)
	}

	b := s.NewBoard()
	if err := b.ApplyMoves(strings.Join(cfg.Args(), "")); err != nil {
		return err
	}
	depth := cfg.GetInt(config.ConfigDepth)

	tstart := time.Now()
	score := s.Search(b, depth)
	elapsed := time.Since(tstart)

	fmt.Println(b.ToDisplayText())
	fmt.Printf("score:           %d\n", score)
	fmt.Printf("depth:           %d\n", depth)
	fmt.Printf("nodes visited:   %d\n", s.NodesVisited())
	fmt.Printf("branches pruned: %d\n", s.BranchesPruned())
	fmt.Printf("tt hits:         %d\n", s.TTHits())
	fmt.Printf("tt entries:      %d\n", s.TranspositionTable().Len())
	fmt.Printf("time:            %s\n", elapsed)
	if pv, err := s.PrincipalVariation(b, depth); err == nil {
		fmt.Printf("pv:              %s\n", pv.MoveString())
	}

	if ttPath != "" {
		if err := ttstore.SaveSolver(ctx, ttPath, s); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg)
	log.Debug().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if err := run(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("search-failed")
		os.Exit(1)
	}
}

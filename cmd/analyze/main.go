// analyze solves every position in a file (or stdin), one move string per
// line, and prints a report.
//
//	analyze --depth 10 --threads 8 positions.txt
//	analyze --json < positions.txt
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/analyzer"
	"github.com/domino14/connectfour/config"
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
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

func run(ctx context.Context, cfg *config.Config, jsonOut bool) error {
	var in io.Reader = os.Stdin
	if args := cfg.Args(); len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	an := analyzer.NewAnalyzer(analyzer.Options{
		Depth:   cfg.GetInt(config.ConfigDepth),
		Threads: cfg.GetInt(config.ConfigThreads),
		Seed:    cfg.GetUint64(config.ConfigZobristSeed),
		// every line clears its table, so don't pre-size it.
		TTFractionOfMem: 0,
	})
	sum, err := an.Analyze(ctx, in)
	if err != nil {
		return err
	}
	if jsonOut {
		return sum.WriteJSON(os.Stdout)
	}
	return sum.WriteReport(os.Stdout)
}

func main() {
	args := os.Args[1:]
	jsonOut := false
	for i, a := range args {
		if a == "--json" {
			jsonOut = true
			args = append(args[:i:i], args[i+1:]...)
			break
		}
	}
	cfg := &config.Config{}
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, jsonOut); err != nil {
		log.Error().Err(err).Msg("analyze-failed")
		os.Exit(1)
	}
}

package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/connectfour/zobrist"
)

const (
	ConfigDebug             = "debug"
	ConfigDepth             = "depth"
	ConfigZobristSeed       = "zobrist-seed"
	ConfigThreads           = "threads"
	ConfigTTFractionOfMem   = "tt-fraction-of-mem"
	ConfigTTPersistencePath = "tt-persistence-path"
	ConfigSearchLogPath     = "search-log-path"
	ConfigCPUProfile        = "cpu-profile"

	configFileFlag = "config"
	envPrefix      = "connectfour"
)

// Config layers, from lowest to highest precedence: defaults, an optional
// YAML file given with --config, CONNECTFOUR_* environment variables, and
// flags set on the command line.
type Config struct {
	*viper.Viper
	flags *pflag.FlagSet
}

func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := pflag.NewFlagSet("connectfour", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigDepth, 10, "search depth in plies")
	fs.Uint64(ConfigZobristSeed, zobrist.DefaultSeed, "seed for the zobrist hash table")
	fs.Int(ConfigThreads, max(1, runtime.NumCPU()-1), "threads for the parallel and batch searches")
	fs.Float64(ConfigTTFractionOfMem, 0.1, "fraction of system memory to pre-size the transposition table for")
	fs.String(ConfigTTPersistencePath, "", "sqlite file the transposition table is loaded from and saved to")
	fs.String(ConfigSearchLogPath, "", "file to append YAML search reports to")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(configFileFlag, "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.flags = fs

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	if path, _ := fs.GetString(configFileFlag); path != "" {
		c.SetConfigFile(path)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return nil
}

// Args returns the positional arguments left after the flags.
func (c *Config) Args() []string {
	if c.flags == nil {
		return nil
	}
	return c.flags.Args()
}

// SanitizedSettings returns the settings worth logging at startup; unset
// paths are left out.
func (c *Config) SanitizedSettings() map[string]any {
	return lo.OmitBy(c.AllSettings(), func(k string, v any) bool {
		s, ok := v.(string)
		return k == configFileFlag || (ok && s == "")
	})
}

// Package config holds the command-line configuration of xaichess.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"xaichess/bots"
)

// Environment overrides. Flags given on the command line win over them.
const (
	EnvEnginePath = "XAICHESS_ENGINE_PATH"
	EnvArchiveDir = "XAICHESS_ARCHIVE_DIR"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Input
	PGNPath string
	Ply     int
	Move    string
	All     bool

	// Threat engine
	Engine      string
	EnginePath  string
	Elo         int
	Depth       int
	ThreatLimit time.Duration
	NoThreat    bool

	// Archive
	Archive    bool
	ArchiveDir string
	List       bool

	// Output
	JSON     bool
	LogLevel string
}

// Default returns the configuration that annotates the game move 16... Bc5
// of the 1851 Immortal Game, with Stockfish for the threat.
func Default() Config {
	return Config{
		PGNPath:     "famous-games/anderssen_kieseritzky_1851.pgn",
		Ply:         31,
		Engine:      "uci",
		EnginePath:  "stockfish",
		Elo:         bots.DefaultElo,
		Depth:       3,
		ThreatLimit: time.Second,
		LogLevel:    "info",
	}
}

// Parse builds a Config from Default, the environment and args, in that
// order of precedence from lowest to highest. getenv may be nil.
func Parse(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	cfg := Default()
	if getenv != nil {
		if v := getenv(EnvEnginePath); v != "" {
			cfg.EnginePath = v
		}
		if v := getenv(EnvArchiveDir); v != "" {
			cfg.ArchiveDir = v
		}
	}

	fs := flag.NewFlagSet("xaichess", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.PGNPath, "pgn", cfg.PGNPath, "PGN file holding the game")
	fs.IntVar(&cfg.Ply, "ply", cfg.Ply, "Number of half-moves to replay before annotating")
	fs.StringVar(&cfg.Move, "move", cfg.Move, "Move to annotate in UCI notation (default: the game move at -ply)")
	fs.BoolVar(&cfg.All, "all", cfg.All, "Annotate every move of the game")

	fs.StringVar(&cfg.Engine, "engine", cfg.Engine, "Threat engine: "+strings.Join(bots.Kinds(), ", "))
	fs.StringVar(&cfg.EnginePath, "engine-path", cfg.EnginePath, "UCI engine executable (env "+EnvEnginePath+")")
	fs.IntVar(&cfg.Elo, "elo", cfg.Elo, "Engine strength limit in Elo (0 = no limit)")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "Search depth for the in-process engines")
	fs.DurationVar(&cfg.ThreatLimit, "threat-time", cfg.ThreatLimit, "Search time per threat query")
	fs.BoolVar(&cfg.NoThreat, "no-threat", cfg.NoThreat, "Skip the best-threat query")

	fs.BoolVar(&cfg.Archive, "archive", cfg.Archive, "Store produced commentary in the archive")
	fs.StringVar(&cfg.ArchiveDir, "archive-dir", cfg.ArchiveDir, "Archive directory (env "+EnvArchiveDir+", default: user data dir)")
	fs.BoolVar(&cfg.List, "list", cfg.List, "List archived commentary for the game and exit")

	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "Output in JSON format")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("%w: unexpected arguments %v", ErrInvalid, fs.Args())
	}
	return cfg, cfg.Validate()
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case c.PGNPath == "":
		return fmt.Errorf("%w: -pgn is required", ErrInvalid)
	case c.Ply < 0:
		return fmt.Errorf("%w: -ply must not be negative, got %d", ErrInvalid, c.Ply)
	case c.Depth < 1:
		return fmt.Errorf("%w: -depth must be at least 1, got %d", ErrInvalid, c.Depth)
	case c.Elo < 0:
		return fmt.Errorf("%w: -elo must not be negative, got %d", ErrInvalid, c.Elo)
	case c.ThreatLimit <= 0:
		return fmt.Errorf("%w: -threat-time must be positive", ErrInvalid)
	}
	if !knownEngine(c.Engine) {
		return fmt.Errorf("%w: unknown engine %q (want one of %s)", ErrInvalid, c.Engine, strings.Join(bots.Kinds(), ", "))
	}
	if c.Engine == "uci" && c.EnginePath == "" && !c.NoThreat {
		return fmt.Errorf("%w: -engine-path is required for the uci engine", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}

// Strength is the engine strength the threat engine is configured with.
func (c Config) Strength() bots.Strength {
	return bots.Strength{Elo: c.Elo, Depth: c.Depth}
}

func knownEngine(kind string) bool {
	for _, k := range bots.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mehdismh/econia/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition and global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docsite.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json)" enum:"text,json" default:"text"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build the documentation site"`
	Init   InitCmd   `cmd:"" help:"Write a starter site next to the configuration file"`
	Routes RoutesCmd `cmd:"" help:"List the routes the site would publish"`
	Search SearchCmd `cmd:"" help:"Query the local search index"`
	Watch  WatchCmd  `cmd:"" help:"Rebuild the site whenever its sources change"`

	logger *slog.Logger
}

// AfterApply runs after flag parsing; set up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.logger = NewLogger(os.Stderr, c.LogFormat, c.Verbose)
	slog.SetDefault(c.logger)
	return nil
}

// Logger returns the configured logger, or the default before AfterApply.
func (c *CLI) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// NewLogger builds the process logger. DOCSITE_LOG_LEVEL overrides the
// level chosen by verbose.
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(verbose)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("DOCSITE_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadSite loads the configuration and applies an output directory override.
func loadSite(path, outDir string) (*config.Site, error) {
	site, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return nil, fmt.Errorf("resolve output directory: %w", err)
		}
		site.OutDir = abs
	}
	return site, nil
}

func out(g *Global) io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

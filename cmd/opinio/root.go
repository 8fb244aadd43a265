package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"opinio/internal/config"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "opinio",
		Short:         "Headless client engine for the opinio entry and voting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (yaml|json|toml); discovered when empty")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug|info|warn|error (defaults OPINIO_LOG_LEVEL or info)")

	root.AddCommand(newServeCmd(opts), newViewsCmd(opts), newRoutesCmd(), newVersionCmd())
	return root
}

// loadConfig resolves the effective configuration: file, then environment,
// then defaults, then the --log-level flag.
func loadConfig(opts *rootOptions) (config.Config, error) {
	var cfg config.Config
	path := opts.ConfigPath
	if path == "" {
		path = config.Discover()
	}
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	cfg, err := cfg.ApplyEnv()
	if err != nil {
		return cfg, err
	}
	cfg = cfg.WithDefaults()
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, nil
}

// newLogger writes human-readable output to terminals and JSON otherwise.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "opinio").Logger(), nil
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lakshaymaurya-felt/diskmap/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	debug      bool
	configPath string
	logFile    string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "dmap",
	Short: "See where your disk space went",
	Long: `dmap - map disk usage as an interactive treemap.

Scans a directory tree concurrently, sizes everything below it and
lets you zoom through the result. Falls back to a plain tree when
stdout is not a terminal.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a subcommand behave like "dmap analyze".
		return runAnalyze(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/diskmap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	addAnalyzeFlags(rootCmd)

	// Register all subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger. Logs go to --log-file when set,
// otherwise to fallback; a nil fallback discards them. The returned func
// closes the log file.
func newLogger(fallback io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }, nil
	}
	if fallback == nil {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	return slog.New(slog.NewTextHandler(fallback, opts)), func() {}, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lakshaymaurya-felt/diskmap/internal/analyze"
	"github.com/lakshaymaurya-felt/diskmap/internal/config"
	"github.com/lakshaymaurya-felt/diskmap/internal/core"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Explore disk usage",
	Long:  "Interactive treemap of disk usage. Prints a plain tree when stdout is not a terminal.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("depth", -1, "Maximum directory depth to expand (default from config)")
	cmd.Flags().String("min-size", "", "Minimum size to display in the static tree (e.g., 100MB)")
	cmd.Flags().StringSlice("exclude", nil, "Directory names to exclude from scan")
	cmd.Flags().Int("concurrency", 0, "Maximum concurrent directory readers (default from config)")
	cmd.Flags().Float64("inset", -1, "Treemap cell margin (default from config)")
	cmd.Flags().Bool("static", false, "Print a plain tree instead of the interactive view")
	cmd.Flags().Bool("json", false, "Print the scan result as JSON")
	cmd.Flags().String("metrics-file", "", "Write scan metrics in Prometheus text format to this file")
}

// analyzeOptions merges flags over the loaded config.
type analyzeOptions struct {
	path        string
	depth       int
	minSize     int64
	exclude     []string
	concurrency int
	inset       float64
	static      bool
	json        bool
	metricsFile string
}

func readAnalyzeOptions(cmd *cobra.Command, args []string) (analyzeOptions, error) {
	f := cmd.Flags()
	o := analyzeOptions{
		depth:       cfg.MaxDepth,
		minSize:     cfg.MinSizeBytes(),
		exclude:     cfg.Exclude,
		concurrency: cfg.Concurrency,
		inset:       cfg.Inset,
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	path, err := config.Expand(target)
	if err != nil {
		return o, fmt.Errorf("invalid path %q: %w", target, err)
	}
	o.path = path

	if d, _ := f.GetInt("depth"); d >= 0 {
		o.depth = d
	}
	if s, _ := f.GetString("min-size"); s != "" {
		n, err := config.ParseSize(s)
		if err != nil {
			return o, err
		}
		o.minSize = n
	}
	if ex, _ := f.GetStringSlice("exclude"); len(ex) > 0 {
		o.exclude = append(append([]string{}, o.exclude...), ex...)
	}
	if c, _ := f.GetInt("concurrency"); c > 0 {
		o.concurrency = c
	}
	if in, _ := f.GetFloat64("inset"); in >= 0 {
		o.inset = in
	}
	o.static, _ = f.GetBool("static")
	o.json, _ = f.GetBool("json")
	o.metricsFile, _ = f.GetString("metrics-file")
	return o, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := readAnalyzeOptions(cmd, args)
	if err != nil {
		return err
	}

	interactive := !opts.static && !opts.json && isTerminal(os.Stdout)
	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = nil
	}
	logger, closeLog, err := newLogger(fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	scanner := analyze.NewScanner(opts.concurrency, opts.exclude, analyze.WithLogger(logger))
	if interactive {
		err = runInteractive(scanner, opts, logger)
	} else {
		err = runBatch(cmd, scanner, opts)
	}
	if err != nil {
		return err
	}

	if opts.metricsFile != "" {
		return scanner.Metrics().WriteTextfile(opts.metricsFile)
	}
	return nil
}

func runInteractive(scanner *analyze.Scanner, opts analyzeOptions, logger *slog.Logger) error {
	nav := analyze.NewNavigator(scanner, opts.depth, logger)
	model := analyze.NewModel(nav, opts.path, opts.inset, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive view: %w", err)
	}
	nav.Cancel()
	return nil
}

func runBatch(cmd *cobra.Command, scanner *analyze.Scanner, opts analyzeOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var progress chan analyze.Progress
	done := make(chan struct{})
	if isTerminal(os.Stderr) {
		progress = make(chan analyze.Progress, 16)
		go func() {
			defer close(done)
			for p := range progress {
				fmt.Fprintf(os.Stderr, "\r\033[K  %3.0f%%  %s", p.Fraction*100, core.Truncate(p.Label, 60))
			}
			fmt.Fprint(os.Stderr, "\r\033[K")
		}()
	} else {
		close(done)
	}

	tree, err := scanner.Scan(ctx, opts.path, opts.depth, progress)
	if progress != nil {
		close(progress)
	}
	<-done
	if err != nil {
		return fmt.Errorf("scan of %s stopped: %w", opts.path, err)
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		return nil
	}
	analyze.PrintStaticTree(out, tree, 0, opts.minSize)
	if warnings := tree.Warnings(); len(warnings) > 0 && debug {
		fmt.Fprintln(cmd.ErrOrStderr(), strings.Join(warnings, "\n"))
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lakshaymaurya-felt/diskmap/internal/analyze"
	"github.com/lakshaymaurya-felt/diskmap/internal/config"
	"github.com/lakshaymaurya-felt/diskmap/internal/core"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// locationSize is one row of the quick-scan report.
type locationSize struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Size the usual suspects",
	Long:  "Quick scan of the home folder, Desktop, Documents, Downloads and other common locations, largest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeLog()

		locs := config.DefaultLocations(cfg.Locations)
		results := make([]locationSize, len(locs))
		probe := analyze.NewProbe(cfg.Concurrency, cfg.Exclude)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(4)
		for i, loc := range locs {
			g.Go(func() error {
				results[i] = locationSize{Name: loc.Name, Path: loc.Path, Size: probe.Size(ctx, loc.Path)}
				logger.Debug("location probed", "path", loc.Path, "bytes", results[i].Size)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		sort.SliceStable(results, func(i, j int) bool { return results[i].Size > results[j].Size })

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for _, r := range results {
			fmt.Fprintf(out, "  %-14s %10s  %s\n", r.Name, core.FormatSize(r.Size), r.Path)
		}
		return nil
	},
}

func init() {
	locationsCmd.Flags().Bool("json", false, "Output sizes as JSON")
}

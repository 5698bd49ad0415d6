package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/lakshaymaurya-felt/diskmap/internal/config"
	"github.com/lakshaymaurya-felt/diskmap/internal/status"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show volume capacity",
	Long:  "Total, used and free space of the volume holding path (default: current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		path, err := config.Expand(target)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", target, err)
		}

		if all, _ := cmd.Flags().GetBool("all"); all {
			vols, err := status.Volumes(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(vols)
			}
			fmt.Fprintln(cmd.OutOrStdout(), status.RenderTable(vols, 80))
			return nil
		}

		u, err := status.Read(cmd.Context(), path)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(u)
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.Render(u, 80))
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "Output usage as JSON")
	statusCmd.Flags().Bool("all", false, "List every mounted volume")
}

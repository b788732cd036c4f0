package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var blockGroupsCmd = &cobra.Command{
	Use:   "blockgroups",
	Short: "Build block groups with derived demographics",
	Long: `Joins TIGER block-group boundaries with ACS 5-year demographics for one
county, derives centroids and K-12 metrics, and writes both the CSV table
and the GeoJSON boundary file. A cache hit requires both files to be valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		output := stringFlag(cmd, "output", cfg.BlockGroups.Output)
		a, err := blockGroupsArtifact(
			stringFlag(cmd, "state", cfg.BlockGroups.State),
			stringFlag(cmd, "county", cfg.BlockGroups.County),
			intFlag(cmd, "acs-year", cfg.BlockGroups.ACSYear),
			intFlag(cmd, "tiger-year", cfg.BlockGroups.TigerYear),
			stringFlag(cmd, "geojson", cfg.BlockGroups.GeoJSON),
		)
		if err != nil {
			return err
		}

		res, err := obtain(ctx, a, output, forceFlag(cmd))
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), a.Name(), len(res.Rows), string(res.Source), output, res.Duration)
		return nil
	},
}

func init() {
	blockGroupsCmd.Flags().String("output", "", "output CSV path (default from config)")
	blockGroupsCmd.Flags().String("geojson", "", "output GeoJSON path (default from config)")
	blockGroupsCmd.Flags().String("state", "", "state FIPS code or postal abbreviation")
	blockGroupsCmd.Flags().String("county", "", "3-digit county FIPS code")
	blockGroupsCmd.Flags().Int("acs-year", 0, "ACS 5-year vintage")
	blockGroupsCmd.Flags().Int("tiger-year", 0, "TIGER/Line boundary vintage")
	rootCmd.AddCommand(blockGroupsCmd)
}

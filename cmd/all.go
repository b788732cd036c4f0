package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/siting-cli/internal/model"
)

// artifacts holds the rows of one full ingestion run.
type artifacts struct {
	Competitors []model.CompetitorSchool
	BlockGroups []model.BlockGroup
	Schools     []model.LandmarkSchool
}

// obtainAll runs the three pipelines in order using configured settings.
// It stops at the first run-level failure.
func obtainAll(ctx context.Context, w io.Writer, force bool) (*artifacts, error) {
	var out artifacts

	comp, err := competitorsArtifact(cfg.Geocoder.Benchmark, cfg.Competitors.Catalog)
	if err != nil {
		return nil, err
	}
	cres, err := obtain(ctx, comp, cfg.Competitors.Output, force)
	if err != nil {
		return nil, err
	}
	printResult(w, comp.Name(), len(cres.Rows), string(cres.Source), cfg.Competitors.Output, cres.Duration)
	out.Competitors = cres.Rows

	bg, err := blockGroupsArtifact(cfg.BlockGroups.State, cfg.BlockGroups.County,
		cfg.BlockGroups.ACSYear, cfg.BlockGroups.TigerYear, cfg.BlockGroups.GeoJSON)
	if err != nil {
		return nil, err
	}
	bres, err := obtain(ctx, bg, cfg.BlockGroups.Output, force)
	if err != nil {
		return nil, err
	}
	printResult(w, bg.Name(), len(bres.Rows), string(bres.Source), cfg.BlockGroups.Output, bres.Duration)
	out.BlockGroups = bres.Rows

	sc, err := schoolsArtifact(cfg.Schools.Year, cfg.Schools.State, cfg.Schools.Counties)
	if err != nil {
		return nil, err
	}
	sres, err := obtain(ctx, sc, cfg.Schools.Output, force)
	if err != nil {
		return nil, err
	}
	printResult(w, sc.Name(), len(sres.Rows), string(sres.Source), cfg.Schools.Output, sres.Duration)
	out.Schools = sres.Rows

	return &out, nil
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Obtain competitors, block groups, and census schools",
	Long:  "Runs the three ingestion pipelines sequentially with the configured paths and regions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err := obtainAll(ctx, cmd.OutOrStdout(), forceFlag(cmd))
		return err
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
}

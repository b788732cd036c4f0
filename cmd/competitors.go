package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Geocode the curated competitor school list",
	Long: `Loads competitor schools from the cache CSV, or geocodes every address in
the curated catalog through the Census one-line geocoder and writes the CSV.
Addresses that do not resolve to coordinates are dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		output := stringFlag(cmd, "output", cfg.Competitors.Output)
		a, err := competitorsArtifact(
			stringFlag(cmd, "benchmark", cfg.Geocoder.Benchmark),
			stringFlag(cmd, "catalog", cfg.Competitors.Catalog),
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

// printResult writes the one-line outcome of an artifact run.
func printResult(w io.Writer, artifact string, rows int, source, path string, d time.Duration) {
	zap.L().Info("artifact ready",
		zap.String("artifact", artifact),
		zap.Int("rows", rows),
		zap.String("source", source),
		zap.String("path", path),
		zap.Duration("duration", d),
	)
	_, _ = fmt.Fprintf(w, "%s: %d rows from %s -> %s\n", artifact, rows, source, path)
}

func init() {
	competitorsCmd.Flags().String("output", "", "output CSV path (default from config)")
	competitorsCmd.Flags().String("benchmark", "", "geocoder benchmark (default from config)")
	competitorsCmd.Flags().String("catalog", "", "YAML file overriding the curated competitor list")
	rootCmd.AddCommand(competitorsCmd)
}

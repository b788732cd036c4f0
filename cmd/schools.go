package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "Extract existing K-12 schools from TIGER point landmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		counties := cfg.Schools.Counties
		if cmd.Flags().Changed("counties") {
			raw, _ := cmd.Flags().GetString("counties")
			counties = splitAndTrim(raw)
		}

		output := stringFlag(cmd, "output", cfg.Schools.Output)
		a, err := schoolsArtifact(
			intFlag(cmd, "year", cfg.Schools.Year),
			stringFlag(cmd, "state", cfg.Schools.State),
			counties,
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
	schoolsCmd.Flags().String("output", "", "output CSV path (default from config)")
	schoolsCmd.Flags().Int("year", 0, "TIGER/Line point landmark vintage")
	schoolsCmd.Flags().String("state", "", "state FIPS code or postal abbreviation")
	schoolsCmd.Flags().String("counties", "", "comma-separated 3-digit county FIPS codes")
	rootCmd.AddCommand(schoolsCmd)
}

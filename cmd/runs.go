package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/siting-cli/internal/ledger"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded ingestion runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Ledger.Path == "" {
			return eris.New("runs: ledger is not configured (set ledger.path)")
		}

		artifact, _ := cmd.Flags().GetString("artifact")
		limit, _ := cmd.Flags().GetInt("limit")

		l, err := ledger.Open(cmd.Context(), cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer l.Close() //nolint:errcheck

		runs, err := l.List(cmd.Context(), artifact, limit)
		if err != nil {
			return err
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	runsCmd.Flags().String("artifact", "", "only show runs for this artifact")
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func formatRunsList(out io.Writer, runs []ledger.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STARTED\tARTIFACT\tSOURCE\tROWS\tDURATION\tERROR")
	_, _ = fmt.Fprintln(w, "-------\t--------\t------\t----\t--------\t-----")

	for _, r := range runs {
		source := r.Source
		if source == "" {
			source = "-"
		}
		if r.Forced {
			source += " (forced)"
		}
		errMsg := "-"
		if r.Error != "" {
			errMsg = r.ErrorKind + ": " + truncate(r.Error, 60)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			r.Artifact,
			source,
			r.Rows,
			r.Duration.Round(time.Millisecond),
			errMsg,
		)
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

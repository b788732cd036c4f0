package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "siting-cli",
	Short: "School-siting reference data ingestion",
	Long: `Builds the reference tables behind the school-siting dashboard: geocoded
competitor schools, census block groups with derived demographics, and
existing K-12 schools from TIGER point landmarks. Each artifact is loaded
from its on-disk cache when valid and refetched from census.gov otherwise.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("force", false, "refetch even when a valid cache exists")
}

// reportError writes err as a single line prefixed with the binary name.
func reportError(w io.Writer, err error) {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	_, _ = fmt.Fprintf(w, "siting-cli: %s\n", msg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

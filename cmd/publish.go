package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/db"
	"github.com/sells-group/siting-cli/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Load all artifacts into PostGIS",
	Long: `Obtains the three artifacts (from cache when valid) and replaces the
contents of the competitor_schools, block_groups, and census_schools tables
in the configured schema. Geometry is written as EWKB with SRID 4326.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dsn := stringFlag(cmd, "database-url", cfg.Publish.DatabaseURL)
		if dsn == "" {
			return eris.New("publish: database URL is required (set publish.database_url or --database-url)")
		}
		schema := stringFlag(cmd, "schema", cfg.Publish.Schema)

		out := cmd.OutOrStdout()
		all, err := obtainAll(ctx, out, forceFlag(cmd))
		if err != nil {
			return err
		}

		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()

		p := publish.New(pool, schema)
		log := zap.L().With(zap.String("component", "publish"), zap.String("schema", schema))

		n, err := p.Competitors(ctx, all.Competitors)
		if err != nil {
			return err
		}
		log.Info("published competitor schools", zap.Int64("rows", n))
		_, _ = fmt.Fprintf(out, "published %d rows to %s.competitor_schools\n", n, schema)

		n, err = p.BlockGroups(ctx, all.BlockGroups)
		if err != nil {
			return err
		}
		log.Info("published block groups", zap.Int64("rows", n))
		_, _ = fmt.Fprintf(out, "published %d rows to %s.block_groups\n", n, schema)

		n, err = p.CensusSchools(ctx, all.Schools)
		if err != nil {
			return err
		}
		log.Info("published census schools", zap.Int64("rows", n))
		_, _ = fmt.Fprintf(out, "published %d rows to %s.census_schools\n", n, schema)

		return nil
	},
}

func init() {
	publishCmd.Flags().String("database-url", "", "PostgreSQL connection string (default from config)")
	publishCmd.Flags().String("schema", "", "target schema (default from config)")
	rootCmd.AddCommand(publishCmd)
}

// Package publish loads the siting artifacts into PostGIS tables.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/db"
	"github.com/sells-group/siting-cli/internal/model"
)

// DefaultSchema holds the published tables.
const DefaultSchema = "siting"

// table describes one published table.
type table struct {
	Name    string
	DDL     string // column definitions
	Columns []string
}

var (
	competitorTable = table{
		Name: "competitor_schools",
		DDL: `school_name   TEXT NOT NULL,
	type          TEXT NOT NULL,
	grades        TEXT,
	address       TEXT,
	notable_info  TEXT,
	capacity_hint TEXT,
	capacity      INTEGER NOT NULL,
	lat           DOUBLE PRECISION NOT NULL,
	lon           DOUBLE PRECISION NOT NULL,
	geom          geometry(Point, 4326) NOT NULL`,
		Columns: []string{"school_name", "type", "grades", "address", "notable_info", "capacity_hint", "capacity", "lat", "lon", "geom"},
	}

	blockGroupTable = table{
		Name: "block_groups",
		DDL: `block_group_id       TEXT PRIMARY KEY,
	tractce              TEXT NOT NULL,
	income               DOUBLE PRECISION,
	k12_pop              DOUBLE PRECISION NOT NULL,
	k12_imputed          BOOLEAN NOT NULL,
	poverty_rate         DOUBLE PRECISION,
	total_pop            DOUBLE PRECISION,
	pct_black            DOUBLE PRECISION,
	pct_white            DOUBLE PRECISION,
	hh_with_u18          DOUBLE PRECISION,
	k12_enrollment_total DOUBLE PRECISION,
	pct_christian        DOUBLE PRECISION NOT NULL,
	pct_first_gen        DOUBLE PRECISION NOT NULL,
	lat                  DOUBLE PRECISION NOT NULL,
	lon                  DOUBLE PRECISION NOT NULL,
	geom                 geometry(MultiPolygon, 4326) NOT NULL`,
		Columns: []string{
			"block_group_id", "tractce", "income", "k12_pop", "k12_imputed", "poverty_rate",
			"total_pop", "pct_black", "pct_white", "hh_with_u18", "k12_enrollment_total",
			"pct_christian", "pct_first_gen", "lat", "lon", "geom",
		},
	}

	censusSchoolTable = table{
		Name: "census_schools",
		DDL: `school_name TEXT NOT NULL,
	type        TEXT NOT NULL,
	mtfcc       TEXT NOT NULL,
	capacity    INTEGER NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lon         DOUBLE PRECISION NOT NULL,
	geom        geometry(Point, 4326) NOT NULL`,
		Columns: []string{"school_name", "type", "mtfcc", "capacity", "lat", "lon", "geom"},
	}
)

// Publisher replaces the contents of the published tables.
type Publisher struct {
	pool   db.Pool
	schema string
}

// New creates a Publisher writing into schema (DefaultSchema when empty).
func New(pool db.Pool, schema string) *Publisher {
	if schema == "" {
		schema = DefaultSchema
	}
	return &Publisher{pool: pool, schema: schema}
}

// Competitors replaces the competitor_schools table.
func (p *Publisher) Competitors(ctx context.Context, rows []model.CompetitorSchool) (int64, error) {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		g, err := pointEWKB(r.Lon, r.Lat)
		if err != nil {
			return 0, eris.Wrapf(err, "publish: %s", r.Name)
		}
		out = append(out, []any{
			r.Name, string(r.Category), r.Grades, r.Address, r.NotableInfo, r.CapacityHint,
			r.Capacity, r.Lat, r.Lon, g,
		})
	}
	return p.replace(ctx, competitorTable, out)
}

// BlockGroups replaces the block_groups table. Null metrics load as SQL NULL.
func (p *Publisher) BlockGroups(ctx context.Context, rows []model.BlockGroup) (int64, error) {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		if r.Geometry == nil {
			return 0, eris.Errorf("publish: block group %s has no geometry", r.GEOID)
		}
		g, err := encodeEWKB(r.Geometry)
		if err != nil {
			return 0, eris.Wrapf(err, "publish: block group %s", r.GEOID)
		}
		out = append(out, []any{
			r.GEOID, r.TractCE, nullable(r.Income), r.K12Pop, r.K12Imputed, nullable(r.PovertyRate),
			nullable(r.TotalPop), nullable(r.PctBlack), nullable(r.PctWhite), nullable(r.HouseholdsWithU18),
			nullable(r.K12EnrollmentTotal), r.PctChristian, r.PctFirstGen, r.Lat, r.Lon, g,
		})
	}
	return p.replace(ctx, blockGroupTable, out)
}

// CensusSchools replaces the census_schools table.
func (p *Publisher) CensusSchools(ctx context.Context, rows []model.LandmarkSchool) (int64, error) {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		g, err := pointEWKB(r.Lon, r.Lat)
		if err != nil {
			return 0, eris.Wrapf(err, "publish: %s", r.Name)
		}
		out = append(out, []any{r.Name, r.Type, r.MTFCC, r.Capacity, r.Lat, r.Lon, g})
	}
	return p.replace(ctx, censusSchoolTable, out)
}

// replace creates the table if needed, truncates it, and COPYs rows in a
// single transaction so readers never see a half-loaded table.
func (p *Publisher) replace(ctx context.Context, t table, rows [][]any) (int64, error) {
	ident := pgx.Identifier{p.schema, t.Name}.Sanitize()

	var n int64
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		stmts := []string{
			fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{p.schema}.Sanitize()),
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", ident, t.DDL),
			fmt.Sprintf("TRUNCATE %s", ident),
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return eris.Wrapf(err, "publish: %s", strings.SplitN(stmt, " ", 2)[0])
			}
		}

		var err error
		n, err = db.CopyFromSchema(ctx, tx, p.schema, t.Name, t.Columns, rows)
		return err
	})
	if err != nil {
		return 0, err
	}

	zap.L().Info("publish: table replaced",
		zap.String("table", p.schema+"."+t.Name),
		zap.Int64("rows", n),
	)
	return n, nil
}

// nullable maps a null Float to a SQL NULL.
func nullable(f model.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}

package main

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/acs"
	"github.com/sells-group/siting-cli/internal/blockgroup"
	"github.com/sells-group/siting-cli/internal/catalog"
	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/fetcher"
	"github.com/sells-group/siting-cli/internal/ingest"
	"github.com/sells-group/siting-cli/internal/ledger"
	"github.com/sells-group/siting-cli/internal/model"
	"github.com/sells-group/siting-cli/internal/tiger"
	"github.com/sells-group/siting-cli/pkg/geocode"
)

// newFetcher builds an HTTP fetcher with the given per-request timeout.
func newFetcher(timeoutSecs int) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Census.UserAgent,
		Timeout:      time.Duration(timeoutSecs) * time.Second,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
}

// competitorsArtifact wires the geocoder and curated catalog.
func competitorsArtifact(benchmark, catalogPath string) (*ingest.Competitors, error) {
	entries, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}
	gc := geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocoder.BaseURL),
		geocode.WithBenchmark(benchmark),
		geocode.WithTimeout(time.Duration(cfg.Geocoder.TimeoutSecs)*time.Second),
		geocode.WithRateLimit(cfg.Geocoder.RateLimit),
	)
	return &ingest.Competitors{Geocoder: gc, Entries: entries}, nil
}

// blockGroupsArtifact wires TIGER boundaries and ACS demographics for one county.
func blockGroupsArtifact(state, county string, acsYear, tigerYear int, geojsonPath string) (*ingest.BlockGroups, error) {
	region, err := resolveRegion(state, []string{county})
	if err != nil {
		return nil, err
	}
	return &ingest.BlockGroups{
		Boundaries: tiger.NewClient(newFetcher(cfg.Census.DownloadTimeoutSecs),
			tiger.WithBaseURL(cfg.Census.TigerBaseURL),
			tiger.WithYear(tigerYear),
			tiger.WithTempDir(cfg.Census.TempDir),
		),
		Demographics: acs.NewClient(newFetcher(cfg.Census.ACSTimeoutSecs),
			acs.WithBaseURL(cfg.Census.ACSBaseURL),
			acs.WithYear(acsYear),
			acs.WithAPIKey(cfg.CensusAPIKey()),
		),
		Region:      region,
		GeoJSONPath: geojsonPath,
		Options: blockgroup.Options{
			PctChristian: cfg.BlockGroups.PctChristian,
			PctFirstGen:  cfg.BlockGroups.PctFirstGen,
		},
	}, nil
}

// schoolsArtifact wires TIGER point landmarks for each county.
func schoolsArtifact(year int, state string, counties []string) (*ingest.Schools, error) {
	region, err := resolveRegion(state, counties)
	if err != nil {
		return nil, err
	}
	return &ingest.Schools{
		Landmarks: tiger.NewClient(newFetcher(cfg.Census.DownloadTimeoutSecs),
			tiger.WithBaseURL(cfg.Census.TigerBaseURL),
			tiger.WithYear(year),
			tiger.WithTempDir(cfg.Census.TempDir),
		),
		Region: region,
		Options: []tiger.LandmarkOption{
			tiger.WithCapacity(cfg.Schools.Capacity),
			tiger.WithExclusions(cfg.Schools.Exclude...),
		},
	}, nil
}

// resolveRegion normalizes a state (FIPS or postal code) and validates counties.
func resolveRegion(state string, counties []string) (model.Region, error) {
	fips, err := tiger.StateFIPS(state)
	if err != nil {
		return model.Region{}, err
	}
	if len(counties) == 0 {
		return model.Region{}, eris.New("at least one county is required")
	}
	out := make([]string, 0, len(counties))
	for _, c := range counties {
		code, err := tiger.CountyFIPS(c)
		if err != nil {
			return model.Region{}, err
		}
		out = append(out, code)
	}
	abbr, _ := tiger.AbbrFromFIPS(fips)
	zap.L().Debug("region resolved",
		zap.String("state", fips),
		zap.String("state_abbr", abbr),
		zap.Strings("counties", out),
	)
	return model.Region{State: fips, Counties: out}, nil
}

// obtain runs the cache-or-fetch orchestration and records the outcome in
// the run ledger when one is configured.
func obtain[T any](ctx context.Context, a ingest.Artifact[T], path string, force bool) (*ingest.Result[T], error) {
	start := time.Now()
	res, err := ingest.Obtain(ctx, a, path, force)

	run := ledger.Run{
		Artifact:  a.Name(),
		Path:      path,
		Forced:    force,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	if err != nil {
		run.ErrorKind = string(failure.KindOf(err))
		run.Error = err.Error()
	} else {
		run.Source = string(res.Source)
		run.Rows = len(res.Rows)
	}
	recordRun(ctx, run)

	return res, err
}

// recordRun appends to the ledger. Ledger failures are logged, never fatal.
func recordRun(ctx context.Context, run ledger.Run) {
	if cfg.Ledger.Path == "" {
		return
	}
	log := zap.L().With(zap.String("component", "ledger"), zap.String("path", cfg.Ledger.Path))

	l, err := ledger.Open(ctx, cfg.Ledger.Path)
	if err != nil {
		log.Warn("ledger unavailable", zap.Error(err))
		return
	}
	defer l.Close() //nolint:errcheck

	if _, err := l.Record(ctx, run); err != nil {
		log.Warn("ledger record failed", zap.Error(err))
	}
}

// stringFlag returns the flag value when set on the command line, else def.
func stringFlag(cmd *cobra.Command, name, def string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return def
}

// intFlag returns the flag value when set on the command line, else def.
func intFlag(cmd *cobra.Command, name string, def int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return def
}

func forceFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("force")
	return v
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

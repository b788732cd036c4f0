package tiger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/geo"
	"github.com/sells-group/siting-cli/internal/model"
)

const (
	// SchoolMTFCCPrefix selects K-12 school landmarks.
	SchoolMTFCCPrefix = "K12"
	// DefaultLandmarkCapacity is the seat count assigned to every landmark school.
	DefaultLandmarkCapacity = 400
	// UnnamedSchool labels a landmark with an empty name.
	UnnamedSchool = "Unnamed School"
	// FallbackSchoolType labels a K12 code missing from SchoolTypes.
	FallbackSchoolType = "K-12 School"
)

// SchoolTypes maps MTFCC codes to a school type label.
var SchoolTypes = map[string]string{
	"K1231": "Elementary/Secondary School",
	"K1232": "Elementary/Secondary School",
	"K1233": "Elementary/Secondary School",
	"K1220": "Secondary School",
	"K1221": "Secondary School",
	"K1222": "Secondary School",
	"K1223": "Secondary School",
	"K1210": "Primary School",
}

// DefaultExcludedSchools are removed from landmark results by name.
var DefaultExcludedSchools = []string{"Cornerstone Christian Academy"}

type landmarkConfig struct {
	capacity int
	exclude  []string
}

// LandmarkOption configures FetchLandmarks.
type LandmarkOption func(*landmarkConfig)

// WithCapacity sets the constant capacity assigned to each school.
func WithCapacity(n int) LandmarkOption {
	return func(c *landmarkConfig) { c.capacity = n }
}

// WithExclusions replaces the excluded school names. Matching is a
// case-insensitive substring test.
func WithExclusions(names ...string) LandmarkOption {
	return func(c *landmarkConfig) { c.exclude = names }
}

// FetchLandmarks downloads the point-landmark shapefile for each county of
// the region, one county at a time, and returns the K-12 schools found.
// A county that fails to download or parse is logged and skipped.
func (c *Client) FetchLandmarks(ctx context.Context, region model.Region, opts ...LandmarkOption) ([]model.LandmarkSchool, error) {
	cfg := landmarkConfig{capacity: DefaultLandmarkCapacity, exclude: DefaultExcludedSchools}
	for _, opt := range opts {
		opt(&cfg)
	}

	log := zap.L().With(zap.String("component", "tiger.landmarks"), zap.Int("year", c.year))

	var all []model.LandmarkSchool
	var failed int
	for _, county := range region.Counties {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "tiger: landmarks cancelled")
		}

		schools, err := c.countyLandmarks(ctx, region.State, county, cfg.capacity)
		if err != nil {
			failed++
			log.Warn("tiger: county landmarks failed, skipping",
				zap.String("county", county),
				zap.String("kind", string(failure.KindOf(err))),
				zap.Error(err),
			)
			continue
		}
		log.Info("tiger: county landmarks loaded", zap.String("county", county), zap.Int("schools", len(schools)))
		all = append(all, schools...)
	}

	if len(region.Counties) > 0 && failed == len(region.Counties) {
		return nil, &failure.DataUnavailableError{
			Artifact: "census schools",
			Cause:    fmt.Sprintf("all %d county downloads failed", failed),
		}
	}

	out := filterSchools(dedupeSchools(all), cfg.exclude)
	if len(out) == 0 {
		return nil, &failure.DataUnavailableError{
			Artifact: "census schools",
			Cause:    "no K-12 landmarks found; verify county codes and year",
		}
	}

	log.Info("tiger: landmarks complete",
		zap.Int("counties", len(region.Counties)),
		zap.Int("failed_counties", failed),
		zap.Int("schools", len(out)),
	)
	return out, nil
}

func (c *Client) countyLandmarks(ctx context.Context, state, county string, capacity int) ([]model.LandmarkSchool, error) {
	url := DownloadURL(c.baseURL, PointLandmarkProduct, c.year, state, county)
	shpPath, cleanup, err := c.download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	records, err := ReadShapefile(shpPath, PointLandmarkProduct.Columns)
	if err != nil {
		return nil, err
	}
	return schoolsFromRecords(records, capacity), nil
}

// SchoolType returns the label for a K12 MTFCC code.
func SchoolType(mtfcc string) string {
	if t, ok := SchoolTypes[mtfcc]; ok {
		return t
	}
	return FallbackSchoolType
}

// schoolsFromRecords keeps K12 landmarks with point coordinates.
func schoolsFromRecords(records []Record, capacity int) []model.LandmarkSchool {
	var out []model.LandmarkSchool
	for _, r := range records {
		mtfcc := r.Attr("mtfcc")
		if !strings.HasPrefix(mtfcc, SchoolMTFCCPrefix) {
			continue
		}
		x, y, ok := pointCoords(r.Shape)
		if !ok {
			continue
		}
		pt := geom.NewPointFlat(geom.XY, []float64{x, y})
		projected, err := geo.Reproject(pt, geo.NAD83, geo.WGS84)
		if err != nil {
			continue
		}
		p := projected.(*geom.Point)

		name := r.Attr("fullname")
		if name == "" {
			name = UnnamedSchool
		}
		out = append(out, model.LandmarkSchool{
			Name:     name,
			Type:     SchoolType(mtfcc),
			Lat:      p.Y(),
			Lon:      p.X(),
			MTFCC:    mtfcc,
			Capacity: capacity,
		})
	}
	return out
}

// dedupeSchools drops exact duplicate rows, keeping first occurrence order.
func dedupeSchools(in []model.LandmarkSchool) []model.LandmarkSchool {
	seen := make(map[model.LandmarkSchool]struct{}, len(in))
	out := make([]model.LandmarkSchool, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// filterSchools removes schools whose name contains any excluded name,
// ignoring case.
func filterSchools(in []model.LandmarkSchool, exclude []string) []model.LandmarkSchool {
	if len(exclude) == 0 {
		return in
	}
	fold := cases.Fold()
	folded := make([]string, 0, len(exclude))
	for _, e := range exclude {
		if e = strings.TrimSpace(e); e != "" {
			folded = append(folded, fold.String(e))
		}
	}

	out := in[:0:0]
	for _, s := range in {
		name := fold.String(s.Name)
		excluded := false
		for _, e := range folded {
			if strings.Contains(name, e) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, s)
		}
	}
	return out
}

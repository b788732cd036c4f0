package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/artifact"
	"github.com/sells-group/siting-cli/internal/catalog"
	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/model"
	"github.com/sells-group/siting-cli/pkg/geocode"
)

// Competitors geocodes the curated competitor list.
type Competitors struct {
	Geocoder geocode.Client
	Entries  []catalog.Entry
}

var _ Artifact[model.CompetitorSchool] = (*Competitors)(nil)

// Name implements Artifact.
func (c *Competitors) Name() string { return "competitor schools" }

// Load implements Artifact.
func (c *Competitors) Load(path string) ([]model.CompetitorSchool, error) {
	return artifact.ReadCSV[model.CompetitorSchool](path)
}

// Persist implements Artifact.
func (c *Competitors) Persist(path string, rows []model.CompetitorSchool) error {
	return artifact.WriteCSV(path, rows)
}

// Build geocodes each entry in catalog order, one request at a time.
// Addresses with no match or a failed request are logged and dropped.
func (c *Competitors) Build(ctx context.Context) ([]model.CompetitorSchool, error) {
	log := zap.L().With(zap.String("component", "ingest.competitors"))

	var rows []model.CompetitorSchool
	var unmatched, failed int
	for _, e := range c.Entries {
		res, err := c.Geocoder.Geocode(ctx, e.Address)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "competitors: geocoding cancelled")
			}
			failed++
			log.Warn("geocode failed, dropping school",
				zap.String("school", e.Name),
				zap.String("kind", string(failure.KindOf(err))),
				zap.Error(err),
			)
			continue
		}
		if !res.Matched {
			unmatched++
			log.Info("no geocoder match, dropping school",
				zap.String("school", e.Name),
				zap.String("address", e.Address),
			)
			continue
		}
		log.Debug("geocoded school",
			zap.String("school", e.Name),
			zap.String("address", e.Address),
			zap.String("matched_address", res.MatchedAddress),
		)
		rows = append(rows, e.School(res.Latitude, res.Longitude))
	}

	log.Info("geocoding complete",
		zap.Int("entries", len(c.Entries)),
		zap.Int("geocoded", len(rows)),
		zap.Int("unmatched", unmatched),
		zap.Int("failed", failed),
	)

	if len(rows) == 0 {
		return nil, &failure.DataUnavailableError{
			Artifact: c.Name(),
			Cause:    "no competitor schools could be geocoded; verify addresses or geocoder availability",
		}
	}
	return rows, nil
}

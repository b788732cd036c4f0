package ingest

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siting-cli/internal/artifact"
	"github.com/sells-group/siting-cli/internal/model"
	"github.com/sells-group/siting-cli/internal/tiger"
)

// LandmarkFetcher returns K-12 school landmarks for a region.
type LandmarkFetcher interface {
	FetchLandmarks(ctx context.Context, region model.Region, opts ...tiger.LandmarkOption) ([]model.LandmarkSchool, error)
}

// Schools extracts existing K-12 schools from TIGER point landmarks.
type Schools struct {
	Landmarks LandmarkFetcher
	Region    model.Region
	Options   []tiger.LandmarkOption
}

var _ Artifact[model.LandmarkSchool] = (*Schools)(nil)

// Name implements Artifact.
func (s *Schools) Name() string { return "census schools" }

// Load implements Artifact.
func (s *Schools) Load(path string) ([]model.LandmarkSchool, error) {
	return artifact.ReadCSV[model.LandmarkSchool](path)
}

// Persist implements Artifact.
func (s *Schools) Persist(path string, rows []model.LandmarkSchool) error {
	return artifact.WriteCSV(path, rows)
}

// Build implements Artifact.
func (s *Schools) Build(ctx context.Context) ([]model.LandmarkSchool, error) {
	rows, err := s.Landmarks.FetchLandmarks(ctx, s.Region, s.Options...)
	if err != nil {
		return nil, eris.Wrap(err, "census schools: landmarks")
	}
	return rows, nil
}

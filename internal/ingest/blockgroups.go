package ingest

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siting-cli/internal/artifact"
	"github.com/sells-group/siting-cli/internal/blockgroup"
	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/model"
	"github.com/sells-group/siting-cli/internal/tiger"
)

// BoundaryFetcher returns block-group polygons for a region.
type BoundaryFetcher interface {
	FetchBoundaries(ctx context.Context, region model.Region) ([]tiger.Boundary, error)
}

// DemographicsFetcher returns derived ACS demographics for a region.
type DemographicsFetcher interface {
	FetchDemographics(ctx context.Context, region model.Region) ([]model.Demographics, error)
}

// BlockGroups joins TIGER boundaries with ACS demographics. Its artifact is
// a CSV plus a GeoJSON file sharing the GEOID key; both must be valid for a
// cache hit.
type BlockGroups struct {
	Boundaries   BoundaryFetcher
	Demographics DemographicsFetcher
	Region       model.Region
	GeoJSONPath  string
	Options      blockgroup.Options
}

var _ Artifact[model.BlockGroup] = (*BlockGroups)(nil)

// Name implements Artifact.
func (b *BlockGroups) Name() string { return "block groups" }

// Load reads the CSV and reattaches each row's polygon from the GeoJSON.
func (b *BlockGroups) Load(path string) ([]model.BlockGroup, error) {
	rows, err := artifact.ReadCSV[model.BlockGroup](path)
	if err != nil {
		return nil, err
	}
	if !artifact.Exists(b.GeoJSONPath) {
		return nil, &failure.CacheInvalidError{Path: b.GeoJSONPath, Err: eris.New("geometry file missing")}
	}
	geoms, err := artifact.ReadBlockGroupGeometries(b.GeoJSONPath)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		g, ok := geoms[rows[i].GEOID]
		if !ok {
			return nil, &failure.CacheInvalidError{
				Path: b.GeoJSONPath,
				Err:  eris.Errorf("no geometry for block group %s", rows[i].GEOID),
			}
		}
		rows[i].Geometry = g
	}
	return rows, nil
}

// Persist stages the GeoJSON and the CSV and renames both into place only
// after both are written, so a failed run leaves the previous pair intact.
func (b *BlockGroups) Persist(path string, rows []model.BlockGroup) error {
	writeGeoJSON, err := artifact.BlockGroupGeoJSONWriter(rows)
	if err != nil {
		return err
	}
	return artifact.WriteFilesAtomic(
		artifact.File{Path: b.GeoJSONPath, Write: writeGeoJSON},
		artifact.File{Path: path, Write: artifact.CSVWriter(rows)},
	)
}

// Build downloads boundaries, fetches demographics in one bulk request, and
// joins them with boundaries as the spine.
func (b *BlockGroups) Build(ctx context.Context) ([]model.BlockGroup, error) {
	boundaries, err := b.Boundaries.FetchBoundaries(ctx, b.Region)
	if err != nil {
		return nil, eris.Wrap(err, "block groups: boundaries")
	}
	if len(boundaries) == 0 {
		return nil, &failure.DataUnavailableError{
			Artifact: b.Name(),
			Cause:    "no block group boundaries found for " + b.Region.String(),
		}
	}

	demo, err := b.Demographics.FetchDemographics(ctx, b.Region)
	if err != nil {
		return nil, eris.Wrap(err, "block groups: demographics")
	}

	rows, _, err := blockgroup.Build(boundaries, demo, b.Options)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

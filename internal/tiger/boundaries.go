package tiger

import (
	"context"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/geo"
	"github.com/sells-group/siting-cli/internal/model"
)

// Boundary is one block-group polygon, stored in WGS84.
type Boundary struct {
	GEOID    string
	StateFP  string
	CountyFP string
	TractCE  string
	BlkGrpCE string
	Geometry *geom.MultiPolygon
}

// FetchBoundaries downloads the state-wide block-group shapefile and returns
// the polygons of the region's counties. The GEOID is rebuilt from its
// components so it always agrees with the ACS join key.
func (c *Client) FetchBoundaries(ctx context.Context, region model.Region) ([]Boundary, error) {
	url := DownloadURL(c.baseURL, BlockGroupProduct, c.year, region.State, "")
	shpPath, cleanup, err := c.download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	records, err := ReadShapefile(shpPath, BlockGroupProduct.Columns)
	if err != nil {
		return nil, err
	}

	boundaries, skipped := boundariesFromRecords(records, region)
	zap.L().Info("tiger: block group boundaries loaded",
		zap.String("region", region.String()),
		zap.Int("year", c.year),
		zap.Int("records", len(records)),
		zap.Int("kept", len(boundaries)),
		zap.Int("skipped_geometry", skipped),
	)
	return boundaries, nil
}

// boundariesFromRecords filters records to the region and converts their
// geometry. Returns the boundaries and the count dropped for bad geometry.
func boundariesFromRecords(records []Record, region model.Region) ([]Boundary, int) {
	var out []Boundary
	var skipped int

	for _, r := range records {
		countyFP := r.Attr("countyfp")
		if !region.HasCounty(countyFP) {
			continue
		}

		poly, ok := r.Shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly, geo.NAD83)
		if mp == nil {
			skipped++
			continue
		}
		projected, err := geo.Reproject(mp, geo.NAD83, geo.WGS84)
		if err != nil {
			zap.L().Debug("tiger: reproject boundary", zap.Error(eris.Wrap(err, "reproject")))
			skipped++
			continue
		}

		b := Boundary{
			StateFP:  r.Attr("statefp"),
			CountyFP: countyFP,
			TractCE:  r.Attr("tractce"),
			BlkGrpCE: r.Attr("blkgrpce"),
			Geometry: projected.(*geom.MultiPolygon),
		}
		b.GEOID = model.GEOID(b.StateFP, b.CountyFP, b.TractCE, b.BlkGrpCE)
		out = append(out, b)
	}

	return out, skipped
}

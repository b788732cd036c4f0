package tiger

import (
	"context"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/geo"
	"github.com/sells-group/siting-cli/internal/model"
)

var bgFields = []string{"STATEFP", "COUNTYFP", "TRACTCE", "BLKGRPCE", "GEOID"}

func TestFetchBoundaries(t *testing.T) {
	dir := t.TempDir()
	files := writeShapefile(t, dir, "tl_2022_42_bg", shp.POLYGON, bgFields, []testFeature{
		{shape: polygon(square(-75.2, 39.9, 0.01)), attrs: []string{"42", "101", "980000", "1", "421019800001"}},
		{shape: polygon(square(-75.1, 39.9, 0.01)), attrs: []string{"42", "101", "000100", "2", "421010001002"}},
		{shape: polygon(square(-77.0, 40.0, 0.01)), attrs: []string{"42", "003", "000100", "1", "420030001001"}},
	})
	srv := newZIPServer(t, map[string][]byte{"tl_2022_42_bg.zip": createTestZIP(t, files)})

	c := newTestClient(t, srv.URL, 2022)
	got, err := c.FetchBoundaries(context.Background(), model.Region{State: "42", Counties: []string{"101"}})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "421019800001", got[0].GEOID)
	assert.Equal(t, "101", got[0].CountyFP)
	assert.Equal(t, "980000", got[0].TractCE)
	assert.Equal(t, "421010001002", got[1].GEOID)

	g := got[0].Geometry
	require.NotNil(t, g)
	assert.Equal(t, int(geo.WGS84), g.SRID())
	assert.Equal(t, 1, g.NumPolygons())
	assert.InDelta(t, -75.2, g.FlatCoords()[0], 1e-9)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestFetchBoundaries_NotFound(t *testing.T) {
	srv := newZIPServer(t, map[string][]byte{})

	c := newTestClient(t, srv.URL, 2022)
	_, err := c.FetchBoundaries(context.Background(), model.Region{State: "42", Counties: []string{"101"}})
	require.Error(t, err)
	assert.Equal(t, failure.KindTransport, failure.KindOf(err))
}

func TestBoundariesFromRecords_SkipsBadGeometry(t *testing.T) {
	records := []Record{
		{
			Attrs: map[string]string{"statefp": "42", "countyfp": "101", "tractce": "000100", "blkgrpce": "1"},
			Shape: &shp.Point{X: 1, Y: 2},
		},
		{
			Attrs: map[string]string{"statefp": "42", "countyfp": "101", "tractce": "000100", "blkgrpce": "2"},
			Shape: polygon(square(0, 0, 1)),
		},
	}

	got, skipped := boundariesFromRecords(records, model.Region{State: "42", Counties: []string{"101"}})
	require.Len(t, got, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "421010001002", got[0].GEOID)
}

func TestPolygonToMultiPolygon_HoleAttachedToShell(t *testing.T) {
	shell := square(0, 0, 10)
	// Counter-clockwise ring inside the shell.
	hole := []shp.Point{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}}
	second := square(20, 20, 1)

	mp := polygonToMultiPolygon(polygon(shell, hole, second), geo.NAD83)
	require.NotNil(t, mp)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
	assert.Equal(t, int(geo.NAD83), mp.SRID())
}

func TestPolygonToMultiPolygon_Degenerate(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil, geo.NAD83))
	assert.Nil(t, polygonToMultiPolygon(polygon([]shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}), geo.NAD83))
}

func TestSignedArea(t *testing.T) {
	cw := []float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}
	ccw := []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}
	assert.InDelta(t, -1.0, signedArea(cw), 1e-12)
	assert.InDelta(t, 1.0, signedArea(ccw), 1e-12)
}

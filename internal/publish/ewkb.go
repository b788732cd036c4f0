package publish

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/siting-cli/internal/geo"
)

// encodeEWKB converts a geometry to little-endian EWKB tagged with SRID 4326.
func encodeEWKB(g geom.T) ([]byte, error) {
	switch t := g.(type) {
	case *geom.Point:
		g = t.SetSRID(int(geo.WGS84))
	case *geom.MultiPolygon:
		g = t.SetSRID(int(geo.WGS84))
	default:
		return nil, eris.Errorf("publish: unsupported geometry %T", g)
	}

	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "publish: encode EWKB")
	}
	return data, nil
}

func pointEWKB(lon, lat float64) ([]byte, error) {
	return encodeEWKB(geom.NewPointFlat(geom.XY, []float64{lon, lat}))
}

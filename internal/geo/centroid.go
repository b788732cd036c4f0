package geo

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Centroid returns the latitude and longitude of a WGS84 geometry's centroid.
//
// The area centroid is taken in Web Mercator and the resulting point is
// projected back to WGS84. A centroid computed directly on degrees is not
// geometrically meaningful at city scale, so the order of these steps matters.
func Centroid(g geom.T) (lat, lon float64, err error) {
	if g == nil || len(g.FlatCoords()) == 0 {
		return 0, 0, eris.New("geo: centroid of empty geometry")
	}

	projected, err := Reproject(g, WGS84, WebMercator)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geo: project for centroid")
	}

	c, err := xy.Centroid(projected)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geo: planar centroid")
	}

	lon, lat = FromMercator(c.X(), c.Y())
	return lat, lon, nil
}

// Package geo reprojects TIGER geometries and computes block-group centroids.
package geo

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// CRS identifies a coordinate reference system by EPSG code.
type CRS int

const (
	// NAD83 is the geographic CRS TIGER/Line shapefiles are published in.
	NAD83 CRS = 4269
	// WGS84 is geographic longitude/latitude; all artifacts are stored in it.
	WGS84 CRS = 4326
	// WebMercator is the planar CRS centroids are computed in.
	WebMercator CRS = 3857
)

const (
	earthRadius = 6378137.0
	// maxMercatorLat is where Web Mercator y diverges; inputs are clamped.
	maxMercatorLat = 85.05112877980659
)

// geographic reports whether the CRS uses degrees of longitude/latitude.
// NAD83 and WGS84 differ by under a meter in the conterminous US, below the
// precision of block-group boundaries, so they convert as the identity.
func (c CRS) geographic() bool {
	return c == NAD83 || c == WGS84
}

// ToMercator projects longitude/latitude degrees to Web Mercator meters.
func ToMercator(lon, lat float64) (x, y float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	x = earthRadius * lon * math.Pi / 180
	y = earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// FromMercator inverts ToMercator.
func FromMercator(x, y float64) (lon, lat float64) {
	lon = x / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

type coordFunc func(x, y float64) (float64, float64)

func transformer(from, to CRS) (coordFunc, error) {
	switch {
	case from == to, from.geographic() && to.geographic():
		return nil, nil
	case from.geographic() && to == WebMercator:
		return ToMercator, nil
	case from == WebMercator && to.geographic():
		return FromMercator, nil
	}
	return nil, eris.Errorf("geo: unsupported reprojection EPSG:%d -> EPSG:%d", from, to)
}

// Reproject returns a copy of g converted from one CRS to another, tagged
// with the target SRID. The input is never modified.
func Reproject(g geom.T, from, to CRS) (geom.T, error) {
	fn, err := transformer(from, to)
	if err != nil {
		return nil, err
	}

	srid := int(to)
	var out geom.T
	switch t := g.(type) {
	case *geom.Point:
		c := t.Clone()
		apply(c.FlatCoords(), c.Stride(), fn)
		out = c.SetSRID(srid)
	case *geom.MultiPoint:
		c := t.Clone()
		apply(c.FlatCoords(), c.Stride(), fn)
		out = c.SetSRID(srid)
	case *geom.LineString:
		c := t.Clone()
		apply(c.FlatCoords(), c.Stride(), fn)
		out = c.SetSRID(srid)
	case *geom.MultiLineString:
		c := t.Clone()
		apply(c.FlatCoords(), c.Stride(), fn)
		out = c.SetSRID(srid)
	case *geom.Polygon:
		c := t.Clone()
		apply(c.FlatCoords(), c.Stride(), fn)
		out = c.SetSRID(srid)
	case *geom.MultiPolygon:
		c := t.Clone()
		apply(c.FlatCoords(), c.Stride(), fn)
		out = c.SetSRID(srid)
	default:
		return nil, eris.Errorf("geo: unsupported geometry %T", g)
	}
	return out, nil
}

// apply transforms flat coordinates in place. A nil fn is the identity.
func apply(flat []float64, stride int, fn coordFunc) {
	if fn == nil || stride < 2 {
		return
	}
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = fn(flat[i], flat[i+1])
	}
}

package artifact

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/geo"
	"github.com/sells-group/siting-cli/internal/model"
)

// geoidProperty keys each feature to its block group.
const geoidProperty = "GEOID"

// WriteBlockGroupGeoJSON atomically writes one feature per block group
// carrying its polygon and the demographic columns as properties.
func WriteBlockGroupGeoJSON(path string, rows []model.BlockGroup) error {
	write, err := BlockGroupGeoJSONWriter(rows)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, write)
}

// BlockGroupGeoJSONWriter builds the feature collection up front so a
// missing geometry fails before anything is staged.
func BlockGroupGeoJSONWriter(rows []model.BlockGroup) (func(io.Writer) error, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(rows))}
	for i := range rows {
		r := &rows[i]
		if r.Geometry == nil {
			return nil, eris.Errorf("artifact: block group %s has no geometry", r.GEOID)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         r.GEOID,
			Geometry:   r.Geometry,
			Properties: blockGroupProperties(r),
		})
	}

	return func(w io.Writer) error {
		return json.NewEncoder(w).Encode(fc)
	}, nil
}

func blockGroupProperties(r *model.BlockGroup) map[string]any {
	return map[string]any{
		geoidProperty:          r.GEOID,
		"block_group_id":       r.GEOID,
		"TRACTCE":              r.TractCE,
		"income":               r.Income,
		"k12_pop":              r.K12Pop,
		"poverty_rate":         r.PovertyRate,
		"lat":                  r.Lat,
		"lon":                  r.Lon,
		"%Christian":           r.PctChristian,
		"%first_gen":           r.PctFirstGen,
		"total_pop":            r.TotalPop,
		"pct_black":            r.PctBlack,
		"pct_white":            r.PctWhite,
		"hh_with_u18":          r.HouseholdsWithU18,
		"k12_enrollment_total": r.K12EnrollmentTotal,
		"k12_imputed":          r.K12Imputed,
	}
}

// ReadBlockGroupGeometries decodes a block-group GeoJSON artifact into
// polygons keyed by GEOID. Failures are *failure.CacheInvalidError.
func ReadBlockGroupGeometries(path string) (map[string]*geom.MultiPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &failure.CacheInvalidError{Path: path, Err: err}
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, &failure.CacheInvalidError{Path: path, Err: eris.Wrap(err, "decode geojson")}
	}
	if len(fc.Features) == 0 {
		return nil, &failure.CacheInvalidError{Path: path, Err: eris.New("no features")}
	}

	out := make(map[string]*geom.MultiPolygon, len(fc.Features))
	for i, f := range fc.Features {
		geoid, _ := f.Properties[geoidProperty].(string)
		if geoid == "" {
			geoid = f.ID
		}
		if geoid == "" {
			return nil, &failure.CacheInvalidError{Path: path, Missing: []string{geoidProperty},
				Err: eris.Errorf("feature %d has no GEOID", i)}
		}

		var mp *geom.MultiPolygon
		switch g := f.Geometry.(type) {
		case *geom.MultiPolygon:
			mp = g
		case *geom.Polygon:
			mp = geom.NewMultiPolygon(g.Layout())
			if err := mp.Push(g); err != nil {
				return nil, &failure.CacheInvalidError{Path: path, Err: eris.Wrapf(err, "feature %s", geoid)}
			}
		default:
			return nil, &failure.CacheInvalidError{Path: path, Err: eris.Errorf("feature %s: unsupported geometry %T", geoid, f.Geometry)}
		}
		out[geoid] = mp.SetSRID(int(geo.WGS84))
	}
	return out, nil
}

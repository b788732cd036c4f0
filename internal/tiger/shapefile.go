package tiger

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// Record is one shapefile feature: its DBF attributes keyed by lower-case
// column name, and its raw shape.
type Record struct {
	Attrs map[string]string
	Shape shp.Shape
}

// Attr returns a trimmed attribute value, or "" when the column is absent.
func (r Record) Attr(name string) string {
	return r.Attrs[strings.ToLower(name)]
}

// ReadShapefile reads every feature of a shapefile, keeping only the
// requested columns. Missing columns read as "".
func ReadShapefile(shpPath string, columns []string) ([]Record, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	var records []Record
	for reader.Next() {
		_, shape := reader.Shape()

		attrs := make(map[string]string, len(columns))
		for _, col := range columns {
			col = strings.ToLower(col)
			idx, ok := fieldIdx[col]
			if !ok {
				continue
			}
			val := strings.TrimRight(reader.Attribute(idx), "\x00")
			attrs[col] = strings.TrimSpace(val)
		}

		records = append(records, Record{Attrs: attrs, Shape: shape})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "tiger: read shapefile %s after %d records", shpPath, len(records))
	}

	return records, nil
}

// Package tiger downloads Census TIGER/Line shapefiles and extracts the
// block-group boundaries and school landmarks the siting pipelines need.
package tiger

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultBaseURL is the root of the TIGER/Line download tree.
const DefaultBaseURL = "https://www2.census.gov/geo/tiger"

// Product describes a TIGER/Line shapefile product.
type Product struct {
	Name      string   // directory under TIGER{year}, e.g. "BG"
	File      string   // file suffix, e.g. "bg"
	PerCounty bool     // true = one file per county, false = one per state
	Columns   []string // attributes read from the DBF
}

var (
	// BlockGroupProduct holds block-group polygons, packaged per state.
	BlockGroupProduct = Product{
		Name:    "BG",
		File:    "bg",
		Columns: []string{"statefp", "countyfp", "tractce", "blkgrpce", "geoid"},
	}

	// PointLandmarkProduct holds point landmarks, packaged per county.
	PointLandmarkProduct = Product{
		Name:      "POINTLM",
		File:      "pointlm",
		PerCounty: true,
		Columns:   []string{"statefp", "pointid", "fullname", "mtfcc"},
	}
)

// DownloadURL builds the download URL for a product. Per-state products use
// tl_{year}_{state}_{file}.zip; per-county use tl_{year}_{state}{county}_{file}.zip.
func DownloadURL(baseURL string, product Product, year int, stateFIPS, countyFIPS string) string {
	area := stateFIPS
	if product.PerCounty {
		area += countyFIPS
	}
	return fmt.Sprintf("%s/TIGER%d/%s/tl_%d_%s_%s.zip",
		strings.TrimRight(baseURL, "/"), year, product.Name, year, area, product.File)
}

// FIPSCodes maps state abbreviation to 2-digit FIPS code for all 50 states + DC.
var FIPSCodes = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56",
}

// abbrByFIPS is a reverse lookup from FIPS code to state abbreviation.
var abbrByFIPS map[string]string

func init() {
	abbrByFIPS = make(map[string]string, len(FIPSCodes))
	for abbr, fips := range FIPSCodes {
		abbrByFIPS[fips] = abbr
	}
}

// AbbrFromFIPS returns the state abbreviation for a FIPS code.
func AbbrFromFIPS(fips string) (string, bool) {
	abbr, ok := abbrByFIPS[fips]
	return abbr, ok
}

// StateFIPS normalizes a state given as a 2-digit FIPS code or a postal
// abbreviation ("PA", "pa") to its FIPS code.
func StateFIPS(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, ok := abbrByFIPS[s]; ok {
		return s, nil
	}
	if fips, ok := FIPSCodes[strings.ToUpper(s)]; ok {
		return fips, nil
	}
	return "", eris.Errorf("tiger: unknown state %q", s)
}

// CountyFIPS validates a 3-digit county FIPS code. Codes are opaque strings;
// "29" is rejected rather than padded.
func CountyFIPS(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != 3 || strings.Trim(s, "0123456789") != "" {
		return "", eris.Errorf("tiger: invalid county FIPS %q (want 3 digits)", s)
	}
	return s, nil
}

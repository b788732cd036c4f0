package model

import "github.com/twpayne/go-geom"

// BlockGroup is one row of the demographics artifact. Geometry is carried in
// memory for the GeoJSON artifact and never written to CSV.
type BlockGroup struct {
	GEOID              string  `csv:"block_group_id"`
	Income             Float   `csv:"income"`
	K12Pop             float64 `csv:"k12_pop"`
	PovertyRate        Float   `csv:"poverty_rate"`
	Lat                float64 `csv:"lat"`
	Lon                float64 `csv:"lon"`
	PctChristian       float64 `csv:"%Christian"`
	PctFirstGen        float64 `csv:"%first_gen"`
	TotalPop           Float   `csv:"total_pop"`
	PctBlack           Float   `csv:"pct_black"`
	PctWhite           Float   `csv:"pct_white"`
	HouseholdsWithU18  Float   `csv:"hh_with_u18"`
	TractCE            string  `csv:"TRACTCE"`
	K12EnrollmentTotal Float   `csv:"k12_enrollment_total"`
	K12Imputed         bool    `csv:"k12_imputed"`

	Geometry *geom.MultiPolygon `csv:"-"`
}

// Demographics is the derived ACS record for one block group, keyed by GEOID.
type Demographics struct {
	GEOID             string
	Income            Float
	K12Pop            Float
	PovertyRate       Float
	TotalPop          Float
	PctBlack          Float
	PctWhite          Float
	HouseholdsWithU18 Float
	EnrolledTotal     Float
}

package model

import "github.com/rotisserie/eris"

// Category classifies a curated competitor school.
type Category string

const (
	CategoryCatholic  Category = "Catholic"
	CategoryPrivate   Category = "Private"
	CategoryCharter   Category = "Charter"
	CategoryChristian Category = "Christian"
	CategoryPublic    Category = "Public"
	CategoryUnnamed   Category = "Unnamed"
)

// ParseCategory validates a category name against the closed set.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryCatholic, CategoryPrivate, CategoryCharter,
		CategoryChristian, CategoryPublic, CategoryUnnamed:
		return c, nil
	}
	return "", eris.Errorf("model: unknown school category %q", s)
}

// UnmarshalText validates the category when decoding CSV or YAML.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CompetitorSchool is a curated competitor resolved to coordinates.
type CompetitorSchool struct {
	Name         string   `csv:"school_name"`
	Category     Category `csv:"type"`
	Grades       string   `csv:"grades"`
	Address      string   `csv:"address"`
	NotableInfo  string   `csv:"notable_info"`
	CapacityHint string   `csv:"capacity_hint"`
	Lat          float64  `csv:"lat"`
	Lon          float64  `csv:"lon"`
	Capacity     int      `csv:"capacity"`
}

// LandmarkSchool is a K-12 school extracted from TIGER point landmarks.
type LandmarkSchool struct {
	Name     string  `csv:"school_name"`
	Type     string  `csv:"type"`
	Lat      float64 `csv:"lat"`
	Lon      float64 `csv:"lon"`
	MTFCC    string  `csv:"mtfcc"`
	Capacity int     `csv:"capacity"`
}

// Package catalog holds the curated list of competitor schools that the
// competitors pipeline geocodes.
package catalog

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/siting-cli/internal/model"
)

//go:embed competitors.yaml
var defaultYAML []byte

// DefaultCapacity is used for an unknown or empty capacity hint.
const DefaultCapacity = 350

// CapacityHints maps a size hint to an estimated seat count.
var CapacityHints = map[string]int{
	"small":  200,
	"medium": 350,
	"large":  600,
}

// Entry is one curated competitor before geocoding.
type Entry struct {
	Name         string         `yaml:"school_name"`
	Category     model.Category `yaml:"type"`
	Grades       string         `yaml:"grades"`
	Address      string         `yaml:"address"`
	NotableInfo  string         `yaml:"notable_info"`
	CapacityHint string         `yaml:"capacity_hint"`
}

// Capacity resolves the entry's hint to a seat count.
func (e Entry) Capacity() int {
	if n, ok := CapacityHints[strings.ToLower(strings.TrimSpace(e.CapacityHint))]; ok {
		return n
	}
	return DefaultCapacity
}

// School builds the output record for the entry at the given coordinates.
func (e Entry) School(lat, lon float64) model.CompetitorSchool {
	return model.CompetitorSchool{
		Name:         e.Name,
		Category:     e.Category,
		Grades:       e.Grades,
		Address:      e.Address,
		NotableInfo:  e.NotableInfo,
		CapacityHint: e.CapacityHint,
		Lat:          lat,
		Lon:          lon,
		Capacity:     e.Capacity(),
	}
}

type file struct {
	Schools []Entry `yaml:"schools"`
}

// Default returns the embedded curated list.
func Default() ([]Entry, error) {
	entries, err := Parse(defaultYAML)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: embedded list")
	}
	return entries, nil
}

// Load reads a catalog from a YAML file; an empty path returns Default.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: %s", path)
	}
	return entries, nil
}

// Parse decodes and validates catalog YAML. Every entry needs a name and
// address and a known category.
func Parse(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "parse yaml")
	}
	if len(f.Schools) == 0 {
		return nil, eris.New("no schools listed")
	}

	for i, e := range f.Schools {
		if strings.TrimSpace(e.Name) == "" {
			return nil, eris.Errorf("entry %d: missing school_name", i)
		}
		if strings.TrimSpace(e.Address) == "" {
			return nil, eris.Errorf("entry %d (%s): missing address", i, e.Name)
		}
		if _, err := model.ParseCategory(string(e.Category)); err != nil {
			return nil, eris.Wrapf(err, "entry %d (%s)", i, e.Name)
		}
	}
	return f.Schools, nil
}

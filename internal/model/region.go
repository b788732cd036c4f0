package model

import "strings"

// Region selects a state and one or more of its counties by FIPS code.
type Region struct {
	State    string
	Counties []string
}

// HasCounty reports whether fips is one of the region's counties.
func (r Region) HasCounty(fips string) bool {
	for _, c := range r.Counties {
		if c == fips {
			return true
		}
	}
	return false
}

// String renders the region as "42:029,101".
func (r Region) String() string {
	return r.State + ":" + strings.Join(r.Counties, ",")
}

// GEOID builds a block-group identifier by concatenating the fixed-width
// state, county, tract, and block-group codes. The result is opaque: leading
// zeros are significant and it is never parsed as a number.
func GEOID(state, county, tract, blockGroup string) string {
	return state + county + tract + blockGroup
}

// Package acs fetches American Community Survey 5-year estimates for
// block groups and derives the demographic metrics used for siting.
package acs

// Variable pairs an ACS variable code with the friendly name rows use.
type Variable struct {
	Code string
	Name string
}

// Friendly names of the default variables.
const (
	MedianIncome    = "median_income"
	PovertyUniverse = "pop_poverty_total"
	BelowPoverty    = "pop_below_poverty"
	TotalPop        = "total_pop"
	WhiteAlone      = "white_alone"
	BlackAlone      = "black_alone"
	HouseholdsU18   = "hh_with_u18"
	EnrolledTotal   = "enrolled_total"
	EnrolledK       = "enrolled_k"
	Enrolled1To4    = "enrolled_1_4"
	Enrolled5To8    = "enrolled_5_8"
	Enrolled9To12   = "enrolled_9_12"
)

// DefaultVariables is the variable set requested for every block group.
var DefaultVariables = []Variable{
	{Code: "B19013_001E", Name: MedianIncome},
	{Code: "B17001_001E", Name: PovertyUniverse},
	{Code: "B17001_002E", Name: BelowPoverty},
	{Code: "B01003_001E", Name: TotalPop},
	{Code: "B03002_003E", Name: WhiteAlone},
	{Code: "B03002_004E", Name: BlackAlone},
	{Code: "B11005_002E", Name: HouseholdsU18},
	{Code: "B14007_001E", Name: EnrolledTotal},
	{Code: "B14007_002E", Name: EnrolledK},
	{Code: "B14007_003E", Name: Enrolled1To4},
	{Code: "B14007_004E", Name: Enrolled5To8},
	{Code: "B14007_005E", Name: Enrolled9To12},
}

// geography columns appended by the API after the requested variables.
const (
	colState      = "state"
	colCounty     = "county"
	colTract      = "tract"
	colBlockGroup = "block group"
)

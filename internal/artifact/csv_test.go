package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/model"
)

func TestWriteReadCSV_LandmarkSchools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "census_schools.csv")
	rows := []model.LandmarkSchool{
		{Name: "Central High School", Type: "Elementary/Secondary School", Lat: 39.95, Lon: -75.16, MTFCC: "K1231", Capacity: 400},
		{Name: "Unnamed School", Type: "K-12 School", Lat: 40.01, Lon: -75.2, MTFCC: "K1239", Capacity: 400},
	}

	require.NoError(t, WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "school_name,type,lat,lon,mtfcc,capacity\n")

	got, err := ReadCSV[model.LandmarkSchool](path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteReadCSV_BlockGroupNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demographics_block_groups.csv")
	rows := []model.BlockGroup{{
		GEOID:       "421019800001",
		Income:      model.Float{},
		K12Pop:      0,
		PovertyRate: model.NewFloat(25),
		TractCE:     "980000",
		K12Imputed:  true,
	}}

	require.NoError(t, WriteCSV(path, rows))
	got, err := ReadCSV[model.BlockGroup](path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "421019800001", got[0].GEOID, "GEOID stays a string")
	assert.Equal(t, "980000", got[0].TractCE, "leading zeros kept")
	assert.False(t, got[0].Income.Valid)
	assert.Equal(t, model.NewFloat(25), got[0].PovertyRate)
	assert.True(t, got[0].K12Imputed)
}

func TestReadCSV_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing []string
	}{
		{name: "empty file", content: ""},
		{name: "header only", content: "school_name,type,lat,lon,mtfcc,capacity\n"},
		{name: "missing columns", content: "school_name,type,lat\nA,K-12 School,1\n", missing: []string{"lon", "mtfcc", "capacity"}},
		{name: "bad number", content: "school_name,type,lat,lon,mtfcc,capacity\nA,B,north,1,K1231,400\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "census_schools.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ReadCSV[model.LandmarkSchool](path)
			require.Error(t, err)

			var ce *failure.CacheInvalidError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, path, ce.Path)
			if tt.missing != nil {
				assert.ElementsMatch(t, tt.missing, ce.Missing)
			}
		})
	}
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV[model.LandmarkSchool](filepath.Join(t.TempDir(), "nope.csv"))
	assert.Equal(t, failure.KindCacheInvalid, failure.KindOf(err))
}

func TestReadCSV_InvalidCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "competition_schools.csv")
	content := "school_name,type,grades,address,notable_info,capacity_hint,lat,lon,capacity\n" +
		"A,Magnet,K-8,1 Main St,,small,40,-75,200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadCSV[model.CompetitorSchool](path)
	assert.Equal(t, failure.KindCacheInvalid, failure.KindOf(err))
}

func TestWriteCSV_EmptyWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV[model.LandmarkSchool](path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "school_name,type,lat,lon,mtfcc,capacity\n", string(data))
}

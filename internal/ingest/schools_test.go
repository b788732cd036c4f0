package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/model"
	"github.com/sells-group/siting-cli/internal/tiger"
)

type fakeLandmarks struct {
	rows   []model.LandmarkSchool
	err    error
	calls  int
	region model.Region
	opts   int
}

func (f *fakeLandmarks) FetchLandmarks(_ context.Context, region model.Region, opts ...tiger.LandmarkOption) ([]model.LandmarkSchool, error) {
	f.calls++
	f.region = region
	f.opts = len(opts)
	return f.rows, f.err
}

func TestSchools_Obtain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "census_schools.csv")
	fl := &fakeLandmarks{rows: fakeRows}
	s := &Schools{
		Landmarks: fl,
		Region:    model.Region{State: "42", Counties: []string{"029", "101"}},
		Options:   []tiger.LandmarkOption{tiger.WithCapacity(400)},
	}

	res, err := Obtain[model.LandmarkSchool](context.Background(), s, path, false)
	require.NoError(t, err)
	assert.Equal(t, fakeRows, res.Rows)
	assert.Equal(t, []string{"029", "101"}, fl.region.Counties)
	assert.Equal(t, 1, fl.opts)

	res, err = Obtain[model.LandmarkSchool](context.Background(), s, path, false)
	require.NoError(t, err)
	assert.True(t, res.FromCache())
	assert.Equal(t, 1, fl.calls)
}

func TestSchools_DataUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "census_schools.csv")
	s := &Schools{Landmarks: &fakeLandmarks{err: &failure.DataUnavailableError{Artifact: "census schools", Cause: "none"}}}

	_, err := Obtain[model.LandmarkSchool](context.Background(), s, path, true)
	require.Error(t, err)
	assert.Equal(t, failure.KindDataUnavailable, failure.KindOf(err))
	assert.NoFileExists(t, path)
}

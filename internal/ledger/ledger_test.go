package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndList(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := l.Record(ctx, Run{
		Artifact: "census schools", Path: "census_schools.csv", Source: "fetch",
		Rows: 120, StartedAt: base, Duration: 1500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = l.Record(ctx, Run{
		Artifact: "block groups", Path: "demographics_block_groups.csv", Forced: true,
		ErrorKind: "transport_failure", Error: "status 503", StartedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	runs, err := l.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "block groups", runs[0].Artifact, "newest first")
	assert.True(t, runs[0].Forced)
	assert.Equal(t, "transport_failure", runs[0].ErrorKind)

	got := runs[1]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "fetch", got.Source)
	assert.Equal(t, 120, got.Rows)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.True(t, base.Equal(got.StartedAt))
}

func TestList_FilterAndLimit(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := l.Record(ctx, Run{Artifact: "competitor schools", Path: "c.csv", Source: "cache", StartedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}
	_, err := l.Record(ctx, Run{Artifact: "census schools", Path: "s.csv", Source: "fetch", StartedAt: base})
	require.NoError(t, err)

	runs, err := l.List(ctx, "competitor schools", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "competitor schools", r.Artifact)
	}

	runs, err = l.List(ctx, "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	l, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = l.Record(ctx, Run{Artifact: "a", Path: "p"})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(ctx, path)
	require.NoError(t, err)
	defer l.Close() //nolint:errcheck
	runs, err := l.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `schools:
  - school_name: Alpha Academy
    type: Charter
    grades: K-8
    address: 1 Main St, Philadelphia, PA
    capacity_hint: small
  - school_name: Nowhere School
    type: Private
    grades: K-5
    address: 0 Missing Rd, Philadelphia, PA
`

// setupCommandEnv points configuration at a temp dir and a fake geocoder.
func setupCommandEnv(t *testing.T) (dir string, hits *atomic.Int32) {
	t.Helper()

	hits = &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("address") == "1 Main St, Philadelphia, PA" {
			_, _ = w.Write([]byte(`{"result":{"addressMatches":[{"matchedAddress":"1 MAIN ST","coordinates":{"x":-75.2,"y":39.95}}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{"addressMatches":[]}}`))
	}))
	t.Cleanup(srv.Close)

	dir = t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))

	t.Setenv("SITING_GEOCODER_BASE_URL", srv.URL)
	t.Setenv("SITING_COMPETITORS_CATALOG", catalogPath)
	t.Setenv("SITING_LEDGER_PATH", filepath.Join(dir, "runs.db"))
	t.Setenv("SITING_LOG_LEVEL", "error")
	return dir, hits
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCompetitorsCommand_FetchThenCache(t *testing.T) {
	dir, hits := setupCommandEnv(t)
	output := filepath.Join(dir, "competitors.csv")

	out, err := execute(t, "competitors", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "competitor schools: 1 rows from fetch")
	assert.Equal(t, int32(2), hits.Load())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alpha Academy")
	assert.NotContains(t, string(data), "Nowhere School")

	out, err = execute(t, "competitors", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "competitor schools: 1 rows from cache")
	assert.Equal(t, int32(2), hits.Load(), "cache hit must not call the geocoder")

	out, err = execute(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "competitor schools")
	assert.Contains(t, out, "cache")
	assert.Contains(t, out, "fetch")
}

func TestRunsCommand_RequiresLedger(t *testing.T) {
	setupCommandEnv(t)
	t.Setenv("SITING_LEDGER_PATH", "")

	_, err := execute(t, "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger is not configured")
}

func TestPublishCommand_RequiresDatabaseURL(t *testing.T) {
	setupCommandEnv(t)

	_, err := execute(t, "publish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

package tiger

import (
	"archive/zip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siting-cli/internal/fetcher"
)

type testFeature struct {
	shape shp.Shape
	attrs []string
}

// writeShapefile writes a shapefile with string fields and returns the
// paths of its .shp/.shx/.dbf parts.
func writeShapefile(t *testing.T, dir, name string, kind shp.ShapeType, fields []string, features []testFeature) []string {
	t.Helper()

	base := filepath.Join(dir, name)
	w, err := shp.Create(base+".shp", kind)
	require.NoError(t, err)

	shpFields := make([]shp.Field, len(fields))
	for i, f := range fields {
		shpFields[i] = shp.StringField(f, 40)
	}
	require.NoError(t, w.SetFields(shpFields))

	for _, feat := range features {
		n := w.Write(feat.shape)
		for i, v := range feat.attrs {
			require.NoError(t, w.WriteAttribute(int(n), i, v))
		}
	}
	w.Close()

	return []string{base + ".shp", base + ".shx", base + ".dbf"}
}

// createTestZIP packs files into a ZIP archive and returns its bytes.
func createTestZIP(t *testing.T, files []string) []byte {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	for _, p := range files {
		w, err := zw.Create(filepath.Base(p))
		require.NoError(t, err)
		in, err := os.Open(p)
		require.NoError(t, err)
		_, err = io.Copy(w, in)
		require.NoError(t, err)
		require.NoError(t, in.Close())
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	return data
}

// square returns a closed clockwise ring (shapefile outer ring orientation).
func square(x0, y0, size float64) []shp.Point {
	return []shp.Point{
		{X: x0, Y: y0},
		{X: x0, Y: y0 + size},
		{X: x0 + size, Y: y0 + size},
		{X: x0 + size, Y: y0},
		{X: x0, Y: y0},
	}
}

func polygon(rings ...[]shp.Point) *shp.Polygon {
	p := shp.Polygon(*shp.NewPolyLine(rings))
	return &p
}

// zipServer serves archives keyed by file name and counts requests.
type zipServer struct {
	*httptest.Server
	archives map[string][]byte
	hits     atomic.Int32
}

func newZIPServer(t *testing.T, archives map[string][]byte) *zipServer {
	t.Helper()
	zs := &zipServer{archives: archives}
	zs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zs.hits.Add(1)
		name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		data, ok := zs.archives[name]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(data)
	}))
	t.Cleanup(zs.Close)
	return zs
}

func newTestClient(t *testing.T, baseURL string, year int) *Client {
	t.Helper()
	return NewClient(
		fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}),
		WithBaseURL(baseURL),
		WithYear(year),
		WithTempDir(t.TempDir()),
	)
}

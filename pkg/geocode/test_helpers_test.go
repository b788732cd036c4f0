package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

// newTestLimiter creates a rate limiter that effectively does not limit for tests.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newTestGeocoder returns a geocoder pointed at a test server running handler.
func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &geocoder{
		httpClient: srv.Client(),
		baseURL:    srv.URL + "/geocoder/locations/onelineaddress",
		benchmark:  DefaultBenchmark,
		limiter:    newTestLimiter(),
	}
}

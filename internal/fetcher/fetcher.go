// Package fetcher downloads remote data for the ingestion pipelines and
// unpacks the archives it receives.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
// Every call is a single attempt: failures are returned, never retried.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

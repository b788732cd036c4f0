// Package ingest implements the cache-or-fetch orchestration shared by the
// competitor, block-group, and census-school artifacts.
package ingest

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/artifact"
	"github.com/sells-group/siting-cli/internal/failure"
)

// Artifact is one persisted table that can be loaded from disk or rebuilt
// from the network.
type Artifact[T any] interface {
	// Name identifies the artifact in logs and errors.
	Name() string
	// Load reads and validates the cached artifact. Validation failures
	// return *failure.CacheInvalidError.
	Load(path string) ([]T, error)
	// Build fetches and derives a complete table in memory.
	Build(ctx context.Context) ([]T, error)
	// Persist overwrites the artifact at path.
	Persist(path string, rows []T) error
}

// Source records where a result came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceFetch Source = "fetch"
)

// Result is the outcome of Obtain.
type Result[T any] struct {
	Rows     []T
	Path     string
	Source   Source
	Forced   bool
	Duration time.Duration
	// CacheErr is the load failure that caused a refetch, if any.
	CacheErr error
}

// FromCache reports whether the rows were loaded without network access.
func (r *Result[T]) FromCache() bool { return r.Source == SourceCache }

// Obtain returns the artifact's rows, from the cache at path when it exists,
// loads cleanly, and force is false. Otherwise it builds the table, persists
// it with a full overwrite, and returns it. A build with zero rows fails with
// *failure.DataUnavailableError and leaves any existing file untouched.
func Obtain[T any](ctx context.Context, a Artifact[T], path string, force bool) (*Result[T], error) {
	start := time.Now()
	log := zap.L().With(
		zap.String("component", "ingest"),
		zap.String("artifact", a.Name()),
		zap.String("path", path),
	)

	res := &Result[T]{Path: path, Forced: force}

	if !force && artifact.Exists(path) {
		rows, err := a.Load(path)
		if err == nil {
			res.Rows = rows
			res.Source = SourceCache
			res.Duration = time.Since(start)
			log.Info("loaded from cache", zap.Int("rows", len(rows)))
			return res, nil
		}
		res.CacheErr = err
		log.Warn("cache unusable, refetching",
			zap.String("kind", string(failure.KindOf(err))),
			zap.Error(err),
		)
	}

	log.Info("fetching", zap.Bool("forced", force))
	rows, err := a.Build(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: build", a.Name())
	}
	if len(rows) == 0 {
		return nil, &failure.DataUnavailableError{Artifact: a.Name(), Cause: "fetch produced no usable rows"}
	}

	if err := a.Persist(path, rows); err != nil {
		return nil, eris.Wrapf(err, "%s: persist", a.Name())
	}

	res.Rows = rows
	res.Source = SourceFetch
	res.Duration = time.Since(start)
	log.Info("fetched and saved", zap.Int("rows", len(rows)), zap.Duration("duration", res.Duration))
	return res, nil
}

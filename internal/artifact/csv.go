package artifact

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/siting-cli/internal/failure"
)

// WriteCSV atomically writes rows with a header derived from T's csv tags.
func WriteCSV[T any](path string, rows []T) error {
	return WriteFileAtomic(path, CSVWriter(rows))
}

// CSVWriter returns a write func encoding rows for use in a staged write.
func CSVWriter[T any](rows []T) func(io.Writer) error {
	return func(w io.Writer) error {
		cw := csv.NewWriter(w)
		enc := csvutil.NewEncoder(cw)
		if len(rows) == 0 {
			var zero T
			if err := enc.EncodeHeader(zero); err != nil {
				return eris.Wrap(err, "encode header")
			}
		}
		for i := range rows {
			if err := enc.Encode(rows[i]); err != nil {
				return eris.Wrapf(err, "encode row %d", i)
			}
		}
		cw.Flush()
		return cw.Error()
	}
}

// ReadCSV decodes a CSV artifact into T. Every column T declares must be in
// the header, and at least one row must be present. Any failure is returned
// as *failure.CacheInvalidError.
func ReadCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &failure.CacheInvalidError{Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &failure.CacheInvalidError{Path: path, Err: eris.New("empty file")}
		}
		return nil, &failure.CacheInvalidError{Path: path, Err: err}
	}
	dec.DisallowMissingColumns = true

	var rows []T
	for {
		var row T
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var missing *csvutil.MissingColumnsError
			if errors.As(err, &missing) {
				return nil, &failure.CacheInvalidError{Path: path, Missing: missing.Columns, Err: err}
			}
			return nil, &failure.CacheInvalidError{Path: path, Err: err}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &failure.CacheInvalidError{Path: path, Err: eris.New("no rows")}
	}
	return rows, nil
}

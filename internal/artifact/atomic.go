// Package artifact reads and writes the on-disk pipeline outputs.
package artifact

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// File is one target of a staged write.
type File struct {
	Path  string
	Write func(io.Writer) error
}

// WriteFileAtomic writes path by streaming into a temp file in the same
// directory and renaming it over the target. Readers never observe a
// partially written artifact.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	return WriteFilesAtomic(File{Path: path, Write: write})
}

// WriteFilesAtomic stages every file as a temp file next to its target and
// renames them into place only after all writes succeed. A failed write
// leaves every target untouched.
func WriteFilesAtomic(files ...File) error {
	staged := make([]string, 0, len(files))
	committed := false
	defer func() {
		if committed {
			return
		}
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()

	for _, f := range files {
		tmp, err := stage(f.Path, f.Write)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			return eris.Wrapf(err, "artifact: rename into %s", f.Path)
		}
	}
	committed = true
	return nil
}

// stage writes a synced temp file beside path and returns its name.
func stage(path string, write func(io.Writer) error) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "artifact: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", eris.Wrap(err, "artifact: create temp file")
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return "", eris.Wrapf(err, "artifact: write %s", path)
	}
	if err := bw.Flush(); err != nil {
		return "", eris.Wrapf(err, "artifact: flush %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return "", eris.Wrapf(err, "artifact: sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrapf(err, "artifact: close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", eris.Wrapf(err, "artifact: chmod %s", path)
	}
	ok = true
	return tmpName, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

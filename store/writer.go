package store

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/theckman/go-flock"
)

// SafeWriter writes a resolved-packages store file to disk, guarding against
// concurrent writers with a file lock and against partial writes by writing
// to a temp file first and renaming it into place.
type SafeWriter struct {
	Path string
}

// Write serializes doc and atomically replaces the file at w.Path, holding
// an exclusive lock on a sibling ".lock" file for the duration.
func (w SafeWriter) Write(doc *Document) error {
	lock := flock.NewFlock(w.Path + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "pkggraph/store: locking %s", w.Path)
	}
	defer lock.Unlock()

	var buf bytes.Buffer
	if err := Save(&buf, doc); err != nil {
		return err
	}

	dir := filepath.Dir(w.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(w.Path)+".tmp")
	if err != nil {
		return errors.Wrap(err, "pkggraph/store: creating temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "pkggraph/store: writing temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "pkggraph/store: closing temp file")
	}

	if err := os.Rename(tmpPath, w.Path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "pkggraph/store: renaming temp file into place")
	}
	return nil
}

// ReadLocked loads the store at path, holding a shared read lock for the
// duration of the read so it cannot observe a writer's half-finished rename.
func ReadLocked(path string) (*Document, error) {
	lock := flock.NewFlock(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, errors.Wrapf(err, "pkggraph/store: locking %s", path)
	}
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph/store: opening %s", path)
	}
	defer f.Close()

	return Load(f, path)
}

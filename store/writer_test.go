package store

import (
	"path/filepath"
	"testing"

	"github.com/pkggraph/pkggraph"
)

func TestSafeWriterWriteThenReadLocked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Package.resolved")

	doc := FromBindings(
		map[pkggraph.PackageIdentity]pkggraph.Version{"a": pkggraph.MustVersion("1.0.0")},
		map[pkggraph.PackageIdentity]string{"a": "https://example.com/a"},
		nil,
	)

	w := SafeWriter{Path: path}
	if err := w.Write(doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := ReadLocked(path)
	if err != nil {
		t.Fatalf("ReadLocked failed: %v", err)
	}
	if len(loaded.Packages) != 1 || loaded.Packages[0].Identity != "a" {
		t.Fatalf("unexpected contents: %+v", loaded.Packages)
	}
}

func TestSafeWriterOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Package.resolved")
	w := SafeWriter{Path: path}

	first := FromBindings(map[pkggraph.PackageIdentity]pkggraph.Version{"a": pkggraph.MustVersion("1.0.0")}, nil, nil)
	if err := w.Write(first); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}

	second := FromBindings(map[pkggraph.PackageIdentity]pkggraph.Version{"b": pkggraph.MustVersion("2.0.0")}, nil, nil)
	if err := w.Write(second); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	loaded, err := ReadLocked(path)
	if err != nil {
		t.Fatalf("ReadLocked failed: %v", err)
	}
	if len(loaded.Packages) != 1 || loaded.Packages[0].Identity != "b" {
		t.Fatalf("expected the second write to fully replace the file, got %+v", loaded.Packages)
	}
}

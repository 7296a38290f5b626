// Package store implements the resolved-packages store: the tagged,
// version-1 record format the core reads on load and writes on save, with
// duplicate-identity validation and a file-lock-guarded writer.
package store

import (
	"io"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/pkggraph/pkggraph"
)

// Version is the only record-format version this store reads or writes.
const Version = 1

// State pins one of a resolved package's branch, revision, or version. A
// record may carry a revision alongside a branch or version (the revision
// the branch/version resolved to at lock time), but never both branch and
// version.
type State struct {
	Branch   string `toml:"branch,omitempty"`
	Revision string `toml:"revision,omitempty"`
	Version  string `toml:"version,omitempty"`
}

// Entry is one resolved package's on-disk record.
type Entry struct {
	Identity pkggraph.PackageIdentity `toml:"identity"`
	Location string                   `toml:"location"`
	State    State                    `toml:"state"`
}

// Document is the root of the resolved-packages store file.
type Document struct {
	Version  int     `toml:"version"`
	Packages []Entry `toml:"packages"`
}

// ErrCorrupted is wrapped with the offending path and identity when Load
// finds a duplicate identity, per spec.md §6.
var ErrCorrupted = errors.New("resolved-packages store is corrupted or malformed")

// Load decodes a resolved-packages store from r and validates it. path is
// used only to build ErrCorrupted's message; it need not be a real file.
func Load(r io.Reader, path string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "pkggraph/store: reading store")
	}

	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "pkggraph/store: decoding store")
	}

	seen := make(map[pkggraph.PackageIdentity]bool, len(doc.Packages))
	for _, e := range doc.Packages {
		if seen[e.Identity] {
			return nil, errors.Wrapf(ErrCorrupted,
				"%s is corrupted or malformed; fix or delete the file to continue: duplicated entry for package %q",
				path, e.Identity)
		}
		seen[e.Identity] = true
	}

	return &doc, nil
}

// Save encodes doc to w, sorting entries by identity first so repeated saves
// of an equivalent document produce byte-identical output.
func Save(w io.Writer, doc *Document) error {
	sorted := make([]Entry, len(doc.Packages))
	copy(sorted, doc.Packages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Identity < sorted[j].Identity })

	out := Document{Version: Version, Packages: sorted}
	data, err := toml.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "pkggraph/store: encoding store")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "pkggraph/store: writing store")
	}
	return nil
}

// FromBindings builds a Document from a resolver's output, one Entry per
// resolved package, using rev (when non-empty) as the pinned revision
// alongside the version.
func FromBindings(bindings map[pkggraph.PackageIdentity]pkggraph.Version, locations map[pkggraph.PackageIdentity]string, revisions map[pkggraph.PackageIdentity]pkggraph.Revision) *Document {
	doc := &Document{Version: Version}
	for id, v := range bindings {
		st := State{Version: v.String()}
		if r, ok := revisions[id]; ok {
			st.Revision = string(r)
		}
		doc.Packages = append(doc.Packages, Entry{
			Identity: id,
			Location: locations[id],
			State:    st,
		})
	}
	return doc
}

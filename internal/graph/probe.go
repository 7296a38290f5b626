package graph

import (
	"path/filepath"

	"github.com/karrick/godirwalk"

	"github.com/pkggraph/pkggraph"
)

// DefaultProbe walks a package's conventional Sources/<name>/ directory (or
// a target's SourcesOverride) under its manifest's Location and reports
// whether it contains at least one regular file, classifying "empty"
// targets for module construction.
type DefaultProbe struct{}

// HasSources implements pkggraph.FileExistenceProbe.
func (DefaultProbe) HasSources(pkg *pkggraph.Manifest, target pkggraph.Target) bool {
	dir := target.SourcesOverride
	if dir == "" {
		dir = filepath.Join("Sources", target.Name)
	}
	root := filepath.Join(pkg.Location, dir)

	found := false
	_ = godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if found {
				return filepath.SkipDir
			}
			if de.IsRegular() {
				found = true
				return filepath.SkipDir
			}
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
	})
	return found
}

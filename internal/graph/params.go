// Package graph composes a set of resolved manifests into a validated
// module/product graph: trait evaluation, cross-compile triple assignment,
// target-dependency edge resolution, cycle detection, uniqueness, and
// platform derivation, per spec.md §4.6.
package graph

import "github.com/pkggraph/pkggraph"

// Params mirrors pkggraph.BuildGraphParams; it exists as a separate type
// only so this package doesn't need to import the root package's exported
// BuildGraph wrapper (which would be a cycle).
type Params struct {
	Manifests     map[pkggraph.PackageIdentity]*pkggraph.Manifest
	Root          pkggraph.PackageIdentity
	Bindings      map[pkggraph.PackageIdentity]pkggraph.Version
	Revisions     map[pkggraph.PackageIdentity]pkggraph.Revision
	TraitOverride pkggraph.Override
	Probe         pkggraph.FileExistenceProbe
	Platforms     pkggraph.PlatformTable
	ToolsVersion  pkggraph.ToolsVersion
}

// defaultPlatforms is the built-in minimum-deployment table, used whenever
// a caller doesn't supply one.
var defaultPlatforms = pkggraph.PlatformTable{
	"macos":       "10.13",
	"ios":         "12.0",
	"tvos":        "12.0",
	"watchos":     "4.0",
	"maccatalyst": "13.0",
}

// xctestMinimums is elementwise max'd into a test target's derived
// platforms on top of defaultPlatforms.
var xctestMinimums = pkggraph.PlatformTable{
	"macos":   "10.13",
	"ios":     "12.0",
	"tvos":    "12.0",
	"watchos": "4.0",
}

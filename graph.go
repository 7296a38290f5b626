package pkggraph

import (
	"github.com/pkggraph/pkggraph/internal/graph"
)

// ModuleKey identifies one module (target) instance in a ResolvedGraph: a
// source target may appear under both triples when it is reachable in
// both, so the triple is part of its identity.
type ModuleKey struct {
	Name   string
	Triple BuildTriple
}

// ProductKey identifies one product instance, keyed the same way as
// ModuleKey.
type ProductKey struct {
	Name   string
	Triple BuildTriple
}

// ModuleEdge is a resolved target-dependency edge, pointing at either
// another module or a product.
type ModuleEdge struct {
	ToModule  ModuleKey
	ToProduct ProductKey
	IsProduct bool
	Cond      Condition
}

// ModuleInstance is one node of the resolved graph's target layer.
type ModuleInstance struct {
	Key               ModuleKey
	Package           PackageIdentity
	Kind              TargetKind
	Defines           []string
	DeclaredPlatforms map[string]string
	DerivedPlatforms  map[string]string
	Dependencies      []ModuleEdge
}

// ProductInstance is one node of the resolved graph's product layer.
type ProductInstance struct {
	Key     ProductKey
	Package PackageIdentity
	Type    ProductType
	Members []ModuleKey
}

// PackageBinding is one package's final position in the graph: its
// resolved version (or revision, or neither for unversioned/path
// dependencies) and its enabled-trait set.
type PackageBinding struct {
	Identity      PackageIdentity
	Version       Version
	HasVersion    bool
	Revision      Revision
	HasRevision   bool
	EnabledTraits map[string]bool
}

// ResolvedGraph is BuildGraph's output: every package's binding, the
// target and product layers, and the diagnostics accumulated while
// building them.
type ResolvedGraph struct {
	Packages    map[PackageIdentity]PackageBinding
	Modules     map[ModuleKey]*ModuleInstance
	Products    map[ProductKey]*ProductInstance
	Diagnostics Diagnostics
}

// FileExistenceProbe answers whether a target's conventional (or
// overridden) source directory exists and is non-empty, so the builder can
// flag empty targets without touching a filesystem itself unless the
// caller's probe chooses to.
type FileExistenceProbe interface {
	HasSources(pkg *Manifest, target Target) bool
}

// PlatformTable supplies the default minimum-deployment version per
// platform name (e.g. "macos" -> "10.13"), used for derived-platform
// elementwise maxing.
type PlatformTable map[string]string

// BuildGraphParams configures one BuildGraph run.
type BuildGraphParams struct {
	// Manifests holds one entry per resolved package, keyed by identity.
	Manifests map[PackageIdentity]*Manifest
	// Root is the identity of the manifest under resolution; only its
	// unused-dependency warnings and trait override apply.
	Root PackageIdentity
	// Bindings carries the resolver's chosen version per package, when
	// known; packages resolved by revision or left unversioned (path
	// dependencies, the root itself) are absent here.
	Bindings map[PackageIdentity]Version
	// Revisions carries the resolver's chosen revision per package, for
	// packages pinned by revision rather than version.
	Revisions map[PackageIdentity]Revision
	// TraitOverride overrides the root manifest's own "default" trait.
	TraitOverride Override
	// Probe classifies whether a target has source files; nil selects the
	// default filesystem probe rooted at each package's Location.
	Probe FileExistenceProbe
	// Platforms supplies default minimum-deployment versions; nil selects
	// the built-in table.
	Platforms PlatformTable
	// ToolsVersion gates package-level cycle tolerance and the
	// explicit-product-reference requirement for edge resolution.
	ToolsVersion ToolsVersion
}

// BuildGraph evaluates traits and composes params.Manifests into a
// validated ResolvedGraph, per spec.md §4.5/§4.6. Validation failures are
// reported as error-severity Diagnostics in the returned graph's buffer,
// not as a returned error. The returned error is always nil: malformed
// input such as an edge naming an unknown package is also reported as a
// diagnostic.
func BuildGraph(params BuildGraphParams) (*ResolvedGraph, error) {
	return graph.Build(graph.Params{
		Manifests:     params.Manifests,
		Root:          params.Root,
		Bindings:      params.Bindings,
		Revisions:     params.Revisions,
		TraitOverride: params.TraitOverride,
		Probe:         params.Probe,
		Platforms:     params.Platforms,
		ToolsVersion:  params.ToolsVersion,
	})
}

package pkggraph

import "context"

// Dependency is one edge reported by a Container: a requirement on another
// package, optionally carrying trait activations and a survival condition.
type Dependency struct {
	Ref    PackageRef
	Req    Requirement
	Traits []TraitActivation
	Cond   Condition
}

// VersionFilter narrows Container.Versions to what the current run accepts.
// The solver passes a filter that admits every version and narrows the
// returned list to its accumulated positive intersection itself; it exists
// as an interface rather than a VersionSet parameter so
// Container implementations can also special-case tools-version exclusion.
type VersionFilter interface {
	Contains(v Version) bool
}

// Container is a provider-yielded handle to one package's metadata. All
// methods must be idempotent within a single Resolve run, and must return
// deterministically for a given argument within that run (§5).
type Container interface {
	// Versions returns this package's published versions, newest first,
	// restricted to those satisfying filter and whose tools-version is not
	// newer than the current one. Resolve does not pass its ToolsVersion to
	// the container, so the container applies that exclusion on its own.
	Versions(ctx context.Context, filter VersionFilter) ([]Version, error)
	// DependenciesAt returns the dependency edges declared by the manifest
	// at the given version.
	DependenciesAt(ctx context.Context, v Version) ([]Dependency, error)
	// DependenciesAtRevision returns the dependency edges declared by the
	// manifest pinned to an exact revision (branch tip or commit).
	DependenciesAtRevision(ctx context.Context, r Revision) ([]Dependency, error)
	// UnversionedDependencies returns the dependency edges for a root or
	// filesystem/path dependency, which carries no version at all.
	UnversionedDependencies(ctx context.Context) ([]Dependency, error)
}

// PackageProvider is the sole I/O boundary the resolver crosses. Every
// suspension point in Resolve happens inside one of its calls.
type PackageProvider interface {
	ContainerFor(ctx context.Context, ref PackageRef) (Container, error)
}

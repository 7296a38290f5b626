package pkggraph

import (
	"context"

	"github.com/pkggraph/pkggraph/internal/resolve"
	"github.com/pkggraph/pkggraph/log"
)

// SolveParameters configures one Resolve run.
type SolveParameters struct {
	// Provider is the sole source of package metadata; Resolve never reads
	// a filesystem or opens a network connection itself.
	Provider PackageProvider
	// ToolsVersion is handed to the solver, which does not consult it while
	// solving; excluding versions whose manifests declare a newer
	// tools-version is left to the provider's Container.Versions.
	ToolsVersion ToolsVersion
	// RevisionResolver optionally answers whether a revision-pinned
	// dependency resolves inside a version-set requirement on the same
	// package. Nil means that intersection is always empty.
	RevisionResolver RevisionResolver
	// TraceLogger receives the resolver's decide/backtrack trace. Nil
	// discards it.
	TraceLogger *log.Logger
}

// Resolve computes a minimal, consistent version assignment for root's
// declared dependencies by driving params.Provider through the
// conflict-driven solver described in spec.md §4. It returns
// *UnsatisfiableError if no assignment exists.
func Resolve(ctx context.Context, root *Manifest, params SolveParameters) (map[PackageIdentity]Version, error) {
	solver := resolve.New(params.Provider, params.ToolsVersion, params.RevisionResolver, params.TraceLogger)
	return solver.Solve(ctx, root)
}

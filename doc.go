// Package pkggraph implements the core of a package-graph toolchain: a
// conflict-driven (PubGrub-style) version solver, and a validated module
// graph builder that sits on top of the solver's output.
//
// The package exposes two entry points. Resolve drives a PackageProvider
// to compute a minimal, consistent version assignment for a set of
// interdependent packages. BuildGraph takes resolved manifests and produces
// a ResolvedGraph: target and product instances, build triples, evaluated
// traits, and a diagnostics buffer.
//
// Everything outside these two operations (fetching source, parsing
// manifests from disk, invoking a compiler, rendering diagnostics for a
// terminal) is the caller's responsibility. pkggraph consumes manifests
// and a PackageProvider; it never opens a network socket on its own, and it
// reads the filesystem only through the default FileExistenceProbe that
// BuildGraph uses when BuildGraphParams.Probe is nil.
package pkggraph

// +build ignore

// Command example wires an in-memory pkggraph.PackageProvider through
// Resolve and then through BuildGraph: the same two-step shape any caller
// follows against a real SourceManager.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/pkggraph/pkggraph"
	plog "github.com/pkggraph/pkggraph/log"
)

// memoryPackage is one version's worth of published dependency data.
type memoryPackage struct {
	version pkggraph.Version
	manifest *pkggraph.Manifest
	deps     []pkggraph.Dependency
}

// memoryContainer implements pkggraph.Container over an in-memory version
// list, the simplest possible stand-in for a real registry/VCS client.
type memoryContainer struct {
	ref      pkggraph.PackageRef
	packages []memoryPackage
}

func (c *memoryContainer) Versions(ctx context.Context, filter pkggraph.VersionFilter) ([]pkggraph.Version, error) {
	var out []pkggraph.Version
	for i := len(c.packages) - 1; i >= 0; i-- {
		v := c.packages[i].version
		if filter == nil || filter.Contains(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (c *memoryContainer) DependenciesAt(ctx context.Context, v pkggraph.Version) ([]pkggraph.Dependency, error) {
	for _, p := range c.packages {
		if p.version.Equal(v) {
			return p.deps, nil
		}
	}
	return nil, fmt.Errorf("no such version %s for %s", v, c.ref.Identity)
}

func (c *memoryContainer) DependenciesAtRevision(ctx context.Context, r pkggraph.Revision) ([]pkggraph.Dependency, error) {
	return nil, fmt.Errorf("%s has no revision %s", c.ref.Identity, r)
}

func (c *memoryContainer) UnversionedDependencies(ctx context.Context) ([]pkggraph.Dependency, error) {
	return nil, nil
}

// memoryProvider is a fixed registry of packages, keyed by identity.
type memoryProvider struct {
	containers map[pkggraph.PackageIdentity]*memoryContainer
	manifests  map[pkggraph.PackageIdentity]*pkggraph.Manifest
}

func (p *memoryProvider) ContainerFor(ctx context.Context, ref pkggraph.PackageRef) (pkggraph.Container, error) {
	c, ok := p.containers[ref.Identity]
	if !ok {
		return nil, fmt.Errorf("unknown package %s", ref.Identity)
	}
	return c, nil
}

func upTo(lower, upper string) pkggraph.Requirement {
	set := pkggraph.RangeVersionSet(pkggraph.MustVersion(lower), true, pkggraph.MustVersion(upper), false)
	return pkggraph.VersionSetRequirement(set)
}

func main() {
	a := pkggraph.NewPackageIdentity("a")
	b := pkggraph.NewPackageIdentity("b")
	c := pkggraph.NewPackageIdentity("c")
	root := pkggraph.NewPackageIdentity("root")

	manifestA := &pkggraph.Manifest{
		Identity:     a,
		Name:         "A",
		Location:     "example.com/a",
		ToolsVersion: "5.7",
		Targets:      []pkggraph.Target{{Name: "A", Kind: pkggraph.TargetLibrary}},
		Products:     []pkggraph.Product{{Name: "A", Type: pkggraph.ProductLibraryAutomatic, Members: []string{"A"}}},
	}
	manifestB := &pkggraph.Manifest{
		Identity:     b,
		Name:         "B",
		Location:     "example.com/b",
		ToolsVersion: "5.7",
		Targets:      []pkggraph.Target{{Name: "B", Kind: pkggraph.TargetLibrary}},
		Products:     []pkggraph.Product{{Name: "B", Type: pkggraph.ProductLibraryAutomatic, Members: []string{"B"}}},
	}
	manifestC := &pkggraph.Manifest{
		Identity:     c,
		Name:         "C",
		Location:     "example.com/c",
		ToolsVersion: "5.7",
		Targets:      []pkggraph.Target{{Name: "C", Kind: pkggraph.TargetLibrary}},
		Products:     []pkggraph.Product{{Name: "C", Type: pkggraph.ProductLibraryAutomatic, Members: []string{"C"}}},
	}
	rootManifest := &pkggraph.Manifest{
		Identity:     root,
		Name:         "Root",
		Location:     ".",
		ToolsVersion: "5.7",
		Targets: []pkggraph.Target{{
			Name: "Root",
			Kind: pkggraph.TargetExecutable,
			Dependencies: []pkggraph.TargetDependency{
				{Name: "A"},
				{Name: "B"},
			},
		}},
		Products: []pkggraph.Product{{Name: "Root", Type: pkggraph.ProductExecutable, Members: []string{"Root"}}},
		Dependencies: []pkggraph.PackageDependency{
			{Ref: pkggraph.PackageRef{Name: "A", Identity: a}, Req: upTo("1.0.0", "2.0.0")},
			{Ref: pkggraph.PackageRef{Name: "B", Identity: b}, Req: upTo("1.0.0", "2.0.0")},
		},
	}

	provider := &memoryProvider{
		containers: map[pkggraph.PackageIdentity]*memoryContainer{
			a: {ref: pkggraph.PackageRef{Name: "A", Identity: a}, packages: []memoryPackage{
				{version: pkggraph.MustVersion("1.0.0"), manifest: manifestA, deps: []pkggraph.Dependency{
					{Ref: pkggraph.PackageRef{Name: "C", Identity: c}, Req: upTo("1.0.0", "2.0.0")},
				}},
			}},
			b: {ref: pkggraph.PackageRef{Name: "B", Identity: b}, packages: []memoryPackage{
				{version: pkggraph.MustVersion("1.0.0"), manifest: manifestB},
			}},
			c: {ref: pkggraph.PackageRef{Name: "C", Identity: c}, packages: []memoryPackage{
				{version: pkggraph.MustVersion("1.0.0"), manifest: manifestC},
			}},
		},
	}

	logger := plog.New(logWriter{})
	bindings, err := pkggraph.Resolve(context.Background(), rootManifest, pkggraph.SolveParameters{
		Provider:     provider,
		ToolsVersion: pkggraph.NewToolsVersion("5.7.0"),
		TraceLogger:  logger,
	})
	if err != nil {
		log.Fatalf("resolve failed: %v", err)
	}

	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{
		root: rootManifest,
		a:    manifestA,
		b:    manifestB,
		c:    manifestC,
	}

	graph, err := pkggraph.BuildGraph(pkggraph.BuildGraphParams{
		Manifests:    manifests,
		Root:         root,
		Bindings:     bindings,
		ToolsVersion: pkggraph.NewToolsVersion("5.7.0"),
	})
	if err != nil {
		log.Fatalf("graph build failed: %v", err)
	}

	for id, v := range bindings {
		fmt.Printf("resolved %s @ %s\n", id, v)
	}
	for key := range graph.Modules {
		fmt.Printf("module %s (%s)\n", key.Name, key.Triple)
	}
}

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	fmt.Print(string(p))
	return len(p), nil
}

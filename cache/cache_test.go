package cache

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/pkggraph/pkggraph"
)

type countingProvider struct {
	versionCalls int32
	depCalls     int32
	versions     []pkggraph.Version
	deps         map[string][]pkggraph.Dependency
}

type countingContainer struct{ p *countingProvider }

func (c countingContainer) Versions(ctx context.Context, filter pkggraph.VersionFilter) ([]pkggraph.Version, error) {
	atomic.AddInt32(&c.p.versionCalls, 1)
	return c.p.versions, nil
}

func (c countingContainer) DependenciesAt(ctx context.Context, v pkggraph.Version) ([]pkggraph.Dependency, error) {
	atomic.AddInt32(&c.p.depCalls, 1)
	return c.p.deps[v.String()], nil
}

func (c countingContainer) DependenciesAtRevision(ctx context.Context, r pkggraph.Revision) ([]pkggraph.Dependency, error) {
	return nil, nil
}

func (c countingContainer) UnversionedDependencies(ctx context.Context) ([]pkggraph.Dependency, error) {
	return nil, nil
}

func (p *countingProvider) ContainerFor(ctx context.Context, ref pkggraph.PackageRef) (pkggraph.Container, error) {
	return countingContainer{p: p}, nil
}

func TestProviderMemoizesVersions(t *testing.T) {
	inner := &countingProvider{versions: []pkggraph.Version{pkggraph.MustVersion("1.0.0")}}
	p := New(inner, nil)
	ref := pkggraph.PackageRef{Name: "a", Identity: "a"}

	container, err := p.ContainerFor(context.Background(), ref)
	if err != nil {
		t.Fatalf("ContainerFor failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := container.Versions(context.Background(), nil); err != nil {
			t.Fatalf("Versions failed: %v", err)
		}
	}
	if inner.versionCalls != 1 {
		t.Fatalf("expected the inner provider to be called once, got %d", inner.versionCalls)
	}
}

func TestProviderMemoizesDependenciesPerVersion(t *testing.T) {
	inner := &countingProvider{
		deps: map[string][]pkggraph.Dependency{
			"1.0.0": {{Ref: pkggraph.PackageRef{Name: "b", Identity: "b"}}},
		},
	}
	p := New(inner, nil)
	ref := pkggraph.PackageRef{Name: "a", Identity: "a"}
	container, _ := p.ContainerFor(context.Background(), ref)

	v := pkggraph.MustVersion("1.0.0")
	if _, err := container.DependenciesAt(context.Background(), v); err != nil {
		t.Fatalf("DependenciesAt failed: %v", err)
	}
	if _, err := container.DependenciesAt(context.Background(), v); err != nil {
		t.Fatalf("DependenciesAt failed: %v", err)
	}
	if inner.depCalls != 1 {
		t.Fatalf("expected the inner provider to be called once, got %d", inner.depCalls)
	}
}

func TestProviderContainerForIsMemoizedPerIdentity(t *testing.T) {
	inner := &countingProvider{}
	p := New(inner, nil)
	ref := pkggraph.PackageRef{Name: "a", Identity: "a"}

	c1, err := p.ContainerFor(context.Background(), ref)
	if err != nil {
		t.Fatalf("ContainerFor failed: %v", err)
	}
	c2, err := p.ContainerFor(context.Background(), ref)
	if err != nil {
		t.Fatalf("ContainerFor failed: %v", err)
	}
	if c1 != c2 {
		t.Fatal("expected the same cached container instance to be returned for repeated identity lookups")
	}
}

func TestProviderWithDiskPersistsVersions(t *testing.T) {
	inner := &countingProvider{versions: []pkggraph.Version{pkggraph.MustVersion("1.0.0"), pkggraph.MustVersion("2.0.0")}}
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	p, err := New(inner, nil).WithDisk(dbPath)
	if err != nil {
		t.Fatalf("WithDisk failed: %v", err)
	}
	defer p.Close()

	ref := pkggraph.PackageRef{Name: "a", Identity: "a"}
	container, _ := p.ContainerFor(context.Background(), ref)
	if _, err := container.Versions(context.Background(), nil); err != nil {
		t.Fatalf("Versions failed: %v", err)
	}

	cached, ok := p.disk.getVersions("a")
	if !ok || len(cached) != 2 {
		t.Fatalf("expected the disk tier to have persisted 2 versions, got %v (ok=%v)", cached, ok)
	}
}

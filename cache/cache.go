// Package cache provides a reference pkggraph.PackageProvider decorator:
// in-process memoization of a wrapped provider's Versions/Dependencies
// calls, an optional on-disk tier, and coalescing of concurrent identical
// requests onto a single underlying call.
package cache

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/pkggraph/pkggraph"
	"github.com/pkggraph/pkggraph/log"
)

// Provider wraps a pkggraph.PackageProvider, memoizing each container's
// Versions/DependenciesAt/DependenciesAtRevision/UnversionedDependencies
// results for the life of the process, coalescing concurrent callers asking
// for the same thing onto one call into the wrapped provider.
type Provider struct {
	inner  pkggraph.PackageProvider
	disk   *diskTier
	logger *log.Logger

	group singleflight.Group

	mu         sync.Mutex
	containers map[pkggraph.PackageIdentity]*cachedContainer
}

// New wraps inner with in-process memoization. logger, if non-nil, receives
// a trace line per in-process hit and per call through to the wrapped
// provider for Versions and DependenciesAt; revision and unversioned
// lookups are not traced.
func New(inner pkggraph.PackageProvider, logger *log.Logger) *Provider {
	return &Provider{
		inner:      inner,
		logger:     logger,
		containers: make(map[pkggraph.PackageIdentity]*cachedContainer),
	}
}

// WithDisk attaches a bbolt-backed disk tier rooted at path. Entries persist
// across process runs; nothing in this package removes them.
func (p *Provider) WithDisk(path string) (*Provider, error) {
	d, err := openDiskTier(path)
	if err != nil {
		return nil, err
	}
	p.disk = d
	return p, nil
}

// Close releases the disk tier, if any.
func (p *Provider) Close() error {
	if p.disk == nil {
		return nil
	}
	return p.disk.close()
}

func (p *Provider) trace(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Tracef("cache", format, args...)
	}
}

// ContainerFor implements pkggraph.PackageProvider.
func (p *Provider) ContainerFor(ctx context.Context, ref pkggraph.PackageRef) (pkggraph.Container, error) {
	p.mu.Lock()
	c, ok := p.containers[ref.Identity]
	if !ok {
		c = &cachedContainer{provider: p, ref: ref}
		p.containers[ref.Identity] = c
	}
	p.mu.Unlock()

	if !ok {
		inner, err, _ := p.group.Do("container:"+string(ref.Identity), func() (interface{}, error) {
			return p.inner.ContainerFor(ctx, ref)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "pkggraph/cache: resolving container for %s", ref.Identity)
		}
		c.inner = inner.(pkggraph.Container)
	}
	return c, nil
}

type cachedContainer struct {
	provider *Provider
	ref      pkggraph.PackageRef
	inner    pkggraph.Container

	mu        sync.Mutex
	versions  []pkggraph.Version
	hasAll    bool
	deps      map[pkggraph.Version][]pkggraph.Dependency
	revDeps   map[pkggraph.Revision][]pkggraph.Dependency
	unversion []pkggraph.Dependency
	hasUnver  bool
}

// Versions implements pkggraph.Container. This cache only ever stores the
// provider's unfiltered newest-first list, since filters vary per call but
// the underlying list does not within a run; filter is applied to that
// stored list on every call.
func (c *cachedContainer) Versions(ctx context.Context, filter pkggraph.VersionFilter) ([]pkggraph.Version, error) {
	c.mu.Lock()
	if c.hasAll {
		versions := c.versions
		c.mu.Unlock()
		c.provider.trace("cache hit: versions(%s)", c.ref.Identity)
		return filterVersions(versions, filter), nil
	}
	c.mu.Unlock()

	key := "versions:" + string(c.ref.Identity)
	v, err, _ := c.provider.group.Do(key, func() (interface{}, error) {
		if c.provider.disk != nil {
			if cached, ok := c.provider.disk.getVersions(c.ref.Identity); ok {
				return cached, nil
			}
		}
		c.provider.trace("cache miss: versions(%s)", c.ref.Identity)
		versions, err := c.inner.Versions(ctx, anyFilter{})
		if err != nil {
			return nil, err
		}
		if c.provider.disk != nil {
			c.provider.disk.putVersions(c.ref.Identity, versions)
		}
		return versions, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph/cache: listing versions for %s", c.ref.Identity)
	}

	versions := v.([]pkggraph.Version)
	c.mu.Lock()
	c.versions, c.hasAll = versions, true
	c.mu.Unlock()
	return filterVersions(versions, filter), nil
}

// DependenciesAt implements pkggraph.Container.
func (c *cachedContainer) DependenciesAt(ctx context.Context, v pkggraph.Version) ([]pkggraph.Dependency, error) {
	c.mu.Lock()
	if c.deps == nil {
		c.deps = make(map[pkggraph.Version][]pkggraph.Dependency)
	}
	if deps, ok := c.deps[v]; ok {
		c.mu.Unlock()
		c.provider.trace("cache hit: dependencies(%s@%s)", c.ref.Identity, v)
		return deps, nil
	}
	c.mu.Unlock()

	key := "deps:" + string(c.ref.Identity) + "@" + v.String()
	d, err, _ := c.provider.group.Do(key, func() (interface{}, error) {
		c.provider.trace("cache miss: dependencies(%s@%s)", c.ref.Identity, v)
		return c.inner.DependenciesAt(ctx, v)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph/cache: reading dependencies of %s@%s", c.ref.Identity, v)
	}

	deps := d.([]pkggraph.Dependency)
	c.mu.Lock()
	c.deps[v] = deps
	c.mu.Unlock()
	return deps, nil
}

// DependenciesAtRevision implements pkggraph.Container.
func (c *cachedContainer) DependenciesAtRevision(ctx context.Context, r pkggraph.Revision) ([]pkggraph.Dependency, error) {
	c.mu.Lock()
	if c.revDeps == nil {
		c.revDeps = make(map[pkggraph.Revision][]pkggraph.Dependency)
	}
	if deps, ok := c.revDeps[r]; ok {
		c.mu.Unlock()
		return deps, nil
	}
	c.mu.Unlock()

	key := "revdeps:" + string(c.ref.Identity) + "@" + string(r)
	d, err, _ := c.provider.group.Do(key, func() (interface{}, error) {
		return c.inner.DependenciesAtRevision(ctx, r)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph/cache: reading dependencies of %s@%s", c.ref.Identity, r)
	}

	deps := d.([]pkggraph.Dependency)
	c.mu.Lock()
	c.revDeps[r] = deps
	c.mu.Unlock()
	return deps, nil
}

// UnversionedDependencies implements pkggraph.Container.
func (c *cachedContainer) UnversionedDependencies(ctx context.Context) ([]pkggraph.Dependency, error) {
	c.mu.Lock()
	if c.hasUnver {
		deps := c.unversion
		c.mu.Unlock()
		return deps, nil
	}
	c.mu.Unlock()

	key := "unversioned:" + string(c.ref.Identity)
	d, err, _ := c.provider.group.Do(key, func() (interface{}, error) {
		return c.inner.UnversionedDependencies(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph/cache: reading unversioned dependencies of %s", c.ref.Identity)
	}

	deps := d.([]pkggraph.Dependency)
	c.mu.Lock()
	c.unversion, c.hasUnver = deps, true
	c.mu.Unlock()
	return deps, nil
}

func filterVersions(all []pkggraph.Version, filter pkggraph.VersionFilter) []pkggraph.Version {
	if filter == nil {
		return all
	}
	out := all[:0:0]
	for _, v := range all {
		if filter.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

type anyFilter struct{}

func (anyFilter) Contains(pkggraph.Version) bool { return true }

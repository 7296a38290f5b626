package pkggraph

import "strings"

// PackageIdentity is a package's stable, lowercase identity, derived from a
// URL, filesystem path, or registry name. Two packages with equal identity
// are the same package regardless of declared display name.
type PackageIdentity string

// NewPackageIdentity canonicalizes urlOrPathOrName into a PackageIdentity:
// trimmed and lowercased, matching how spec.md defines identity equality.
func NewPackageIdentity(urlOrPathOrName string) PackageIdentity {
	return PackageIdentity(strings.ToLower(strings.TrimSpace(urlOrPathOrName)))
}

func (id PackageIdentity) String() string { return string(id) }

// PackageRef names a package dependency as declared in a manifest: a
// human-facing Name (which may be a legacy alias) paired with the
// authoritative Identity used for all equality and lookup.
type PackageRef struct {
	Name     string
	Identity PackageIdentity
}

// NewPackageRef derives a PackageRef whose identity is computed from name.
// Callers that already know a canonical identity distinct from the display
// name (e.g. a registry scope or a checked-out URL) should construct
// PackageRef directly instead.
func NewPackageRef(name string) PackageRef {
	return PackageRef{Name: name, Identity: NewPackageIdentity(name)}
}

func (r PackageRef) String() string { return r.Name }

// Eq compares by identity, never by display name.
func (r PackageRef) Eq(other PackageRef) bool { return r.Identity == other.Identity }

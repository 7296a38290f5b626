package pkggraph

import (
	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Version is a parsed semantic version used throughout the package graph:
// manifest declarations, provider-reported candidates, and resolved
// assignments are all expressed in terms of it.
type Version struct {
	sv *semver.Version
}

// NewVersion parses s as a semantic version.
func NewVersion(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "parsing version %q", s)
	}
	return Version{sv: sv}, nil
}

// MustVersion is NewVersion for callers constructing literal versions, e.g.
// in tests and example providers. It panics on a malformed string.
func MustVersion(s string) Version {
	v, err := NewVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) IsZero() bool { return v.sv == nil }

func (v Version) Major() int64 { return v.sv.Major() }
func (v Version) Minor() int64 { return v.sv.Minor() }
func (v Version) Patch() int64 { return v.sv.Patch() }

func (v Version) Prerelease() string { return v.sv.Prerelease() }
func (v Version) Metadata() string   { return v.sv.Metadata() }
func (v Version) IsPrerelease() bool { return v.sv.Prerelease() != "" }

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than
// other, using semver precedence (metadata is ignored, prerelease sorts
// below its release).
func (v Version) Compare(other Version) int { return v.sv.Compare(other.sv) }

func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }
func (v Version) Less(other Version) bool  { return v.Compare(other) < 0 }

// SameTriple reports whether v and other share the same major.minor.patch,
// ignoring prerelease and build metadata. Used by the pre-release admission
// rule in VersionSet.Contains.
func (v Version) SameTriple(other Version) bool {
	return v.Major() == other.Major() && v.Minor() == other.Minor() && v.Patch() == other.Patch()
}

func (v Version) String() string {
	if v.sv == nil {
		return "<zero version>"
	}
	return v.sv.String()
}

// Revision is an opaque, caller-defined identifier for an unversioned
// checkout: a commit hash, a branch tip, anything the PackageProvider can
// resolve to a concrete set of dependencies. pkggraph never interprets its
// contents.
type Revision string

func (r Revision) String() string { return string(r) }

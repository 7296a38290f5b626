package pkggraph

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// ToolsVersion gates which tools-version-dependent rules the resolver and
// graph builder apply: the explicit-product-reference requirement at >=
// 5.2, package-level cycle permission at >= 6.0, and the minimum
// tools-version this core still accepts from a resolved manifest.
type ToolsVersion struct {
	sv *semver.Version
}

// MinimumSupportedToolsVersion is the oldest tools-version a resolved
// package may declare before ErrUnsupportedToolsVersion is raised.
var MinimumSupportedToolsVersion = NewToolsVersion("4.0.0")

// NewToolsVersion parses a tools-version string. It panics on malformed
// input; tools-version values are compiled-in constants or validated
// caller configuration, never untrusted input reaching this far.
func NewToolsVersion(s string) ToolsVersion {
	sv, err := semver.NewVersion(s)
	if err != nil {
		panic(errors.Wrapf(err, "pkggraph: invalid tools-version %q", s))
	}
	return ToolsVersion{sv: sv}
}

// ParseToolsVersion parses a manifest-declared tools-version string. Unlike
// NewToolsVersion, it returns an error instead of panicking: a manifest's
// declared tools-version is untrusted caller input, not compiled-in
// configuration.
func ParseToolsVersion(s string) (ToolsVersion, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return ToolsVersion{}, errors.Wrapf(err, "pkggraph: invalid tools-version %q", s)
	}
	return ToolsVersion{sv: sv}, nil
}

func (t ToolsVersion) String() string { return t.sv.String() }

// AtLeast reports whether t is other or newer. The zero ToolsVersion orders
// before every parsed one.
func (t ToolsVersion) AtLeast(other ToolsVersion) bool {
	if t.sv == nil || other.sv == nil {
		return other.sv == nil
	}
	return t.sv.Compare(other.sv) >= 0
}

// RequiresExplicitProductReference reports whether a bare-name cross-package
// dependency must instead be an explicit .product(name:, package:) reference.
func (t ToolsVersion) RequiresExplicitProductReference() bool {
	return t.AtLeast(NewToolsVersion("5.2.0"))
}

// PermitsPackageCycles reports whether a package-level dependency cycle is
// tolerated (subject to no induced target-level cycle).
func (t ToolsVersion) PermitsPackageCycles() bool {
	return t.AtLeast(NewToolsVersion("6.0.0"))
}

// ErrUnsupportedToolsVersion is returned (wrapped with the offending
// package's path and version) when a resolved manifest's tools-version
// predates MinimumSupportedToolsVersion.
var ErrUnsupportedToolsVersion = errors.New("tools version no longer supported")

// CheckSupported returns a formatted error if declared predates the
// minimum this core supports, matching spec.md §7's exact message shape.
func CheckSupported(path string, version Version, declared ToolsVersion) error {
	if declared.AtLeast(MinimumSupportedToolsVersion) {
		return nil
	}
	return errors.Wrap(ErrUnsupportedToolsVersion, fmt.Sprintf(
		"package at '%s' @ %s is using Swift tools version %s which is no longer supported; "+
			"consider using '// swift-tools-version:…' to specify the current tools version",
		path, version, declared,
	))
}

package pkggraph

// RequirementKind tags what a dependency edge asks of the package it
// points at.
type RequirementKind int8

const (
	// ReqVersionSet pins the dependency to a VersionSet.
	ReqVersionSet RequirementKind = iota
	// ReqRevision pins the dependency to an exact, caller-opaque revision.
	ReqRevision
	// ReqUnversioned admits any binding at all, used for root manifests
	// and filesystem/path dependencies that carry no version.
	ReqUnversioned
)

func (k RequirementKind) String() string {
	switch k {
	case ReqVersionSet:
		return "versionSet"
	case ReqRevision:
		return "revision"
	case ReqUnversioned:
		return "unversioned"
	default:
		return "unknown"
	}
}

// Requirement is what a dependency edge asks of another package: a version
// set, an exact revision, or unversioned (anything goes).
type Requirement struct {
	Kind     RequirementKind
	Versions VersionSet // meaningful iff Kind == ReqVersionSet
	Rev      Revision   // meaningful iff Kind == ReqRevision
}

// VersionSetRequirement builds a versionSet requirement.
func VersionSetRequirement(vs VersionSet) Requirement {
	return Requirement{Kind: ReqVersionSet, Versions: vs}
}

// RevisionRequirement builds a revision requirement.
func RevisionRequirement(r Revision) Requirement {
	return Requirement{Kind: ReqRevision, Rev: r}
}

// UnversionedRequirement is the requirement that admits any binding.
func UnversionedRequirement() Requirement {
	return Requirement{Kind: ReqUnversioned}
}

// IsEmpty reports whether the requirement is vacuously unsatisfiable: a
// versionSet requirement whose set has no members. Revision and unversioned
// requirements are never empty on their own.
func (r Requirement) IsEmpty() bool {
	return r.Kind == ReqVersionSet && r.Versions.IsEmpty()
}

// RevisionResolver is the provider hook spec.md §9 Open Question (a) calls
// for: it tells the algebra whether a given revision would resolve to a
// version inside a version set, so that revision ∩ versionSet can be
// evaluated instead of always failing. A provider that cannot answer this
// (returns false) makes the intersection conservatively empty.
type RevisionResolver interface {
	RevisionResolvesTo(pkg PackageIdentity, rev Revision, vs VersionSet) bool
}

// Intersect computes the requirement satisfied by exactly the bindings that
// satisfy both r and other, for dependency edges converging on pkg. rr may
// be nil; in that case any revision/versionSet mix is treated as empty
// (fails closed, per DESIGN.md's Open Question (a) resolution).
func (r Requirement) Intersect(pkg PackageIdentity, other Requirement, rr RevisionResolver) Requirement {
	switch {
	case r.Kind == ReqUnversioned && other.Kind == ReqUnversioned:
		return UnversionedRequirement()
	case r.Kind == ReqUnversioned:
		// unversioned ∩ x = unversioned iff x is satisfied by everything.
		if other.Kind == ReqVersionSet && other.Versions.IsAny() {
			return UnversionedRequirement()
		}
		return VersionSetRequirement(EmptyVersionSet())
	case other.Kind == ReqUnversioned:
		return other.Intersect(pkg, r, rr)

	case r.Kind == ReqRevision && other.Kind == ReqRevision:
		if r.Rev == other.Rev {
			return RevisionRequirement(r.Rev)
		}
		return VersionSetRequirement(EmptyVersionSet())

	case r.Kind == ReqRevision && other.Kind == ReqVersionSet:
		if rr != nil && rr.RevisionResolvesTo(pkg, r.Rev, other.Versions) {
			return RevisionRequirement(r.Rev)
		}
		return VersionSetRequirement(EmptyVersionSet())
	case r.Kind == ReqVersionSet && other.Kind == ReqRevision:
		return other.Intersect(pkg, r, rr)

	default: // both ReqVersionSet
		return VersionSetRequirement(r.Versions.Intersect(other.Versions))
	}
}

// Contains reports whether v satisfies a versionSet requirement. It is
// always true for unversioned and is never applicable to revision
// requirements (callers compare revisions directly).
func (r Requirement) Contains(v Version) bool {
	switch r.Kind {
	case ReqUnversioned:
		return true
	case ReqVersionSet:
		return r.Versions.Contains(v)
	default:
		return false
	}
}

func (r Requirement) String() string {
	switch r.Kind {
	case ReqUnversioned:
		return "unversioned"
	case ReqRevision:
		return "revision(" + string(r.Rev) + ")"
	default:
		return r.Versions.String()
	}
}

package pkggraph

import "fmt"

// Relation classifies how two terms' sets of satisfying bindings compare.
// The resolver's unit-propagation step uses it to decide whether an
// incompatibility is already satisfied, already contradicted, or still
// undetermined.
type Relation int8

const (
	RelationOverlap Relation = iota
	RelationSubset
	RelationDisjoint
)

func (r Relation) String() string {
	switch r {
	case RelationSubset:
		return "subset"
	case RelationDisjoint:
		return "disjoint"
	default:
		return "overlap"
	}
}

// Term is a single literal inside an incompatibility: a claim about which
// package a binding is drawn from, what requirement that binding must (or
// must not, depending on Positive) satisfy.
type Term struct {
	Package  PackageIdentity
	Req      Requirement
	Positive bool
}

// NewTerm builds a positive term.
func NewTerm(pkg PackageIdentity, req Requirement) Term {
	return Term{Package: pkg, Req: req, Positive: true}
}

// NewNegativeTerm builds a negative term.
func NewNegativeTerm(pkg PackageIdentity, req Requirement) Term {
	return Term{Package: pkg, Req: req, Positive: false}
}

// Negate returns the logical complement of t: same package and requirement,
// opposite polarity.
func (t Term) Negate() Term {
	return Term{Package: t.Package, Req: t.Req, Positive: !t.Positive}
}

// allowedSet returns the VersionSet of versions this term (read as positive)
// claims a binding may fall within. Revision and unversioned requirements
// have no interval representation; ok is false for those, and callers must
// compare them directly.
func (t Term) allowedSet() (VersionSet, bool) {
	if t.Req.Kind != ReqVersionSet {
		return VersionSet{}, false
	}
	return t.Req.Versions, true
}

// SatisfiedBy reports whether binding v satisfies t. bound false means the
// package is not selected at all, and v is then ignored.
func (t Term) SatisfiedBy(pkg PackageIdentity, v Version, bound bool) bool {
	if !bound {
		return !t.Positive
	}
	matches := t.Req.Contains(v)
	if t.Positive {
		return matches
	}
	return !matches
}

// Intersect computes the term whose satisfying bindings are exactly those
// that satisfy both t and other, per spec.md §4.1: same-polarity intersects
// requirements, opposite-polarity subtracts. It panics if t and other are on
// different packages; callers (the incompatibility normalizer, the partial
// solution's per-package cache) only ever call this within one package's
// assignment stream.
func (t Term) Intersect(other Term, rr RevisionResolver) Term {
	if t.Package != other.Package {
		panic(fmt.Sprintf("pkggraph: Term.Intersect across packages %q and %q", t.Package, other.Package))
	}

	switch {
	case t.Positive && other.Positive:
		return Term{Package: t.Package, Req: t.Req.Intersect(t.Package, other.Req, rr), Positive: true}

	case !t.Positive && !other.Positive:
		// not(a) ∩ not(b): allowed region is the union of what's forbidden,
		// complemented, so disallow a ∪ b.
		ta, aOK := t.allowedSet()
		tb, bOK := other.allowedSet()
		if aOK && bOK {
			return Term{Package: t.Package, Req: VersionSetRequirement(ta.Union(tb)), Positive: false}
		}
		// unversioned/revision negatives: forbidding both only relaxes to
		// forbidding t's own requirement when they're identical.
		if t.Req == other.Req {
			return t
		}
		return Term{Package: t.Package, Req: UnversionedRequirement(), Positive: false}

	default:
		// opposite polarity: positive \ negative.
		pos, neg := t, other
		if !t.Positive {
			pos, neg = other, t
		}
		allowed, ok := pos.allowedSet()
		forbidden, fOK := neg.allowedSet()
		if ok && fOK {
			return Term{Package: t.Package, Req: VersionSetRequirement(allowed.Intersect(forbidden.Complement())), Positive: true}
		}
		if pos.Req.Kind == ReqRevision && neg.Req.Kind == ReqRevision {
			if pos.Req.Rev == neg.Req.Rev {
				return Term{Package: t.Package, Req: VersionSetRequirement(EmptyVersionSet()), Positive: true}
			}
			return pos
		}
		return pos
	}
}

// Relation classifies t against other: subset if every binding satisfying t
// also satisfies other, disjoint if no binding can satisfy both, overlap
// otherwise.
func (t Term) Relation(other Term) Relation {
	ta, aOK := t.allowedSet()
	tb, bOK := other.allowedSet()

	switch {
	case t.Positive && other.Positive && aOK && bOK:
		switch {
		case ta.IsSubset(tb):
			return RelationSubset
		case ta.IsDisjoint(tb):
			return RelationDisjoint
		default:
			return RelationOverlap
		}
	case t.Positive && !other.Positive && aOK && bOK:
		switch {
		case ta.IsDisjoint(tb):
			return RelationSubset
		case ta.IsSubset(tb):
			return RelationDisjoint
		default:
			return RelationOverlap
		}
	case !t.Positive && other.Positive && aOK && bOK:
		// t's satisfying set is complement(ta); other's is tb.
		switch {
		case tb.IsSubset(ta):
			return RelationDisjoint
		case ta.Union(tb).IsAny():
			return RelationSubset
		default:
			return RelationOverlap
		}
	case !t.Positive && !other.Positive && aOK && bOK:
		// t's satisfying set is complement(ta); other's is complement(tb).
		switch {
		case tb.IsSubset(ta):
			return RelationSubset
		case ta.Union(tb).IsAny():
			return RelationDisjoint
		default:
			return RelationOverlap
		}
	default:
		// revision/unversioned requirements carry no VersionSet to compute
		// a real complement against; only exact equality is decidable.
		if t.Req == other.Req {
			if t.Positive == other.Positive {
				return RelationSubset
			}
			return RelationDisjoint
		}
		return RelationOverlap
	}
}

// Satisfies reports whether every binding satisfying t also satisfies other
// (t ⊆ other as sets of bindings).
func (t Term) Satisfies(other Term) bool {
	return t.Relation(other) == RelationSubset
}

func (t Term) String() string {
	if t.Positive {
		return fmt.Sprintf("%s %s", t.Package, t.Req)
	}
	return fmt.Sprintf("not %s %s", t.Package, t.Req)
}

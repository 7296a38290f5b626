// Package resolve implements the conflict-driven (PubGrub-style) version
// solver: the incompatibility store, the partial solution, and the
// resolver's propagate/decide/backtrack loop.
package resolve

import (
	"sort"

	"github.com/pkggraph/pkggraph"
)

// IncompatibilityID indexes into a Store's arena. Per spec.md §9's design
// note, causes are stored as indices rather than pointers so the DAG of
// derivations can never accidentally become a reference cycle and so error
// tree rendering is O(1) per hop.
type IncompatibilityID int

const noIncompatibility IncompatibilityID = -1

// Incompatibility is an immutable conjunction of terms proven to be
// jointly unsatisfiable, plus the cause that produced it.
type Incompatibility struct {
	Terms []pkggraph.Term
	Cause pkggraph.Cause

	// DependencyPackage/DependencyVersion are set when Cause ==
	// CauseDependency.
	DependencyPackage pkggraph.PackageIdentity
	DependencyVersion pkggraph.Version

	// Cause1/Cause2 index the two incompatibilities resolution combined to
	// produce this one; valid only when Cause == CauseConflict.
	Cause1, Cause2 IncompatibilityID
}

// Store is the write-only, arena-indexed incompatibility collection
// described in spec.md §4.2: indexed by each term's package for O(1)
// propagation, equality by term set (ignoring cause), never shrinks.
type Store struct {
	arena []Incompatibility
	// byPackage maps a package identity to the IDs of incompatibilities
	// containing at least one term on it.
	byPackage map[pkggraph.PackageIdentity][]IncompatibilityID
	// bySignature dedupes by the normalized term set so re-deriving an
	// already-known incompatibility is a no-op lookup, not a fresh insert.
	bySignature map[string]IncompatibilityID
}

// NewStore returns an empty incompatibility store.
func NewStore() *Store {
	return &Store{
		byPackage:   make(map[pkggraph.PackageIdentity][]IncompatibilityID),
		bySignature: make(map[string]IncompatibilityID),
	}
}

// Get returns the incompatibility at id.
func (s *Store) Get(id IncompatibilityID) *Incompatibility {
	return &s.arena[id]
}

// ForPackage returns the IDs of every incompatibility with a term on pkg,
// in insertion order.
func (s *Store) ForPackage(pkg pkggraph.PackageIdentity) []IncompatibilityID {
	return s.byPackage[pkg]
}

// NewFromDependency builds {pkg@v, ¬depPkg:req} with cause dependency(pkg),
// per spec.md §4.4's decision-making step.
func NewFromDependency(pkg pkggraph.PackageIdentity, v pkggraph.Version, dep pkggraph.Term) Incompatibility {
	base := pkggraph.NewTerm(pkg, pkggraph.VersionSetRequirement(pkggraph.ExactVersionSet(v)))
	return Incompatibility{
		Terms:             []pkggraph.Term{base, dep.Negate()},
		Cause:             pkggraph.CauseDependency,
		DependencyPackage: pkg,
		DependencyVersion: v,
	}
}

// NewNoAvailableVersion builds the incompatibility forbidding a version for
// which every dependency combination conflicted.
func NewNoAvailableVersion(term pkggraph.Term) Incompatibility {
	return Incompatibility{Terms: []pkggraph.Term{term}, Cause: pkggraph.CauseNoAvailableVersion}
}

// NewRoot builds a single-term incompatibility on rootPkg tagged CauseRoot.
// Solve does not call it: it seeds the root through
// PartialSolution.SeedRoot and injects each root dependency as its own
// single negated term tagged CauseRoot.
func NewRoot(rootPkg pkggraph.PackageIdentity) Incompatibility {
	neg := pkggraph.NewNegativeTerm(rootPkg, pkggraph.UnversionedRequirement())
	return Incompatibility{Terms: []pkggraph.Term{neg}, Cause: pkggraph.CauseRoot}
}

// normalize merges terms on the same package through Term.Intersect
// (positives intersected, negatives unioned). It never drops an
// incompatibility, including an all-negative one whose positive union
// covers the universe.
func normalize(terms []pkggraph.Term, rr pkggraph.RevisionResolver) []pkggraph.Term {
	byPkg := make(map[pkggraph.PackageIdentity]pkggraph.Term)
	order := make([]pkggraph.PackageIdentity, 0, len(terms))
	for _, t := range terms {
		if existing, ok := byPkg[t.Package]; ok {
			byPkg[t.Package] = existing.Intersect(t, rr)
			continue
		}
		byPkg[t.Package] = t
		order = append(order, t.Package)
	}

	out := make([]pkggraph.Term, 0, len(order))
	for _, pkg := range order {
		out = append(out, byPkg[pkg])
	}
	return out
}

func signature(terms []pkggraph.Term) string {
	strs := make([]string, len(terms))
	for i, t := range terms {
		strs[i] = t.String()
	}
	sort.Strings(strs)
	out := ""
	for _, s := range strs {
		out += s + "\x00"
	}
	return out
}

// Insert normalizes incomp's terms and adds it to the store, returning the
// ID of either the freshly inserted incompatibility or an existing one with
// an identical (normalized) term set.
func (s *Store) Insert(incomp Incompatibility, rr pkggraph.RevisionResolver) IncompatibilityID {
	incomp.Terms = normalize(incomp.Terms, rr)
	sig := signature(incomp.Terms)
	if id, ok := s.bySignature[sig]; ok {
		return id
	}

	id := IncompatibilityID(len(s.arena))
	s.arena = append(s.arena, incomp)
	s.bySignature[sig] = id
	for _, t := range incomp.Terms {
		s.byPackage[t.Package] = append(s.byPackage[t.Package], id)
	}
	return id
}

// ToErrorTree renders the incompatibility DAG rooted at id as a
// pkggraph.ErrorTree, the public unsatisfiability report.
func (s *Store) ToErrorTree(id IncompatibilityID) *pkggraph.ErrorTree {
	memo := make(map[IncompatibilityID]*pkggraph.ErrorTree)
	var walk func(IncompatibilityID) *pkggraph.ErrorTree
	walk = func(id IncompatibilityID) *pkggraph.ErrorTree {
		if id == noIncompatibility {
			return nil
		}
		if n, ok := memo[id]; ok {
			return n
		}
		incomp := s.Get(id)
		node := &pkggraph.ErrorTree{
			Terms:             incomp.Terms,
			Cause:             incomp.Cause,
			DependencyPackage: incomp.DependencyPackage,
			DependencyVersion: incomp.DependencyVersion,
		}
		memo[id] = node
		if incomp.Cause == pkggraph.CauseConflict {
			node.Children = []*pkggraph.ErrorTree{walk(incomp.Cause1), walk(incomp.Cause2)}
		}
		return node
	}
	return walk(id)
}

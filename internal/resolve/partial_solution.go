package resolve

import (
	"fmt"
	"strings"

	"github.com/pkggraph/pkggraph"
)

// SatisfactionStatus is the outcome of testing an incompatibility against a
// PartialSolution's current state, per spec.md §4.3.
type SatisfactionStatus int8

const (
	Unsatisfied SatisfactionStatus = iota
	AlmostSatisfied
	Satisfied
)

// Satisfaction is the result of PartialSolution.Satisfies: the status, and
// (for AlmostSatisfied) the one term still undetermined.
type Satisfaction struct {
	Status SatisfactionStatus
	Except pkggraph.Term
}

// PartialSolution is the resolver's evolving, chronologically ordered list
// of assignments, with O(1) append and a per-package positive-intersection
// cache for fast satisfaction testing.
type PartialSolution struct {
	assignments []Assignment
	perPackage  map[pkggraph.PackageIdentity][]int // indices into assignments
	// positive is the cached intersection of every positive term observed
	// for a package across its assignment history; absent means
	// unconstrained (treated as the Any version set).
	positive map[pkggraph.PackageIdentity]pkggraph.Term
	level    int
	root     pkggraph.PackageIdentity
	rr       pkggraph.RevisionResolver
}

// NewPartialSolution returns an empty partial solution for resolving root.
func NewPartialSolution(root pkggraph.PackageIdentity, rr pkggraph.RevisionResolver) *PartialSolution {
	return &PartialSolution{
		perPackage: make(map[pkggraph.PackageIdentity][]int),
		positive:   make(map[pkggraph.PackageIdentity]pkggraph.Term),
		root:       root,
		rr:         rr,
	}
}

func (ps *PartialSolution) append(a Assignment) Assignment {
	a.Index = len(ps.assignments)
	ps.assignments = append(ps.assignments, a)
	ps.perPackage[a.Term.Package] = append(ps.perPackage[a.Term.Package], a.Index)
	if a.Term.Positive {
		if cur, ok := ps.positive[a.Term.Package]; ok {
			ps.positive[a.Term.Package] = cur.Intersect(a.Term, ps.rr)
		} else {
			ps.positive[a.Term.Package] = a.Term
		}
	}
	return a
}

// Decide appends a decision for pkg@v at a new decision level.
func (ps *PartialSolution) Decide(pkg pkggraph.PackageIdentity, v pkggraph.Version) Assignment {
	ps.level++
	term := pkggraph.NewTerm(pkg, pkggraph.VersionSetRequirement(pkggraph.ExactVersionSet(v)))
	return ps.append(Assignment{Kind: AssignmentDecision, Term: term, Level: ps.level, Cause: noIncompatibility, Version: v})
}

// SeedRoot appends the root package's own assignment at level 0, so its
// dependencies participate in propagation from the start.
func (ps *PartialSolution) SeedRoot() Assignment {
	term := pkggraph.NewTerm(ps.root, pkggraph.UnversionedRequirement())
	return ps.append(Assignment{Kind: AssignmentDecision, Term: term, Level: 0, Cause: noIncompatibility})
}

// Derive appends a fact forced by unit propagation at the current level.
func (ps *PartialSolution) Derive(term pkggraph.Term, cause IncompatibilityID) Assignment {
	return ps.append(Assignment{Kind: AssignmentDerivation, Term: term, Level: ps.level, Cause: cause})
}

// PositiveIntersection returns the cached intersection of positive terms
// observed for pkg, or the zero Term and false if none.
func (ps *PartialSolution) PositiveIntersection(pkg pkggraph.PackageIdentity) (pkggraph.Term, bool) {
	t, ok := ps.positive[pkg]
	return t, ok
}

func (ps *PartialSolution) currentTerm(pkg pkggraph.PackageIdentity) pkggraph.Term {
	if t, ok := ps.positive[pkg]; ok {
		return t
	}
	return pkggraph.NewTerm(pkg, pkggraph.VersionSetRequirement(pkggraph.AnyVersionSet()))
}

// Satisfies classifies incomp against the current state, per spec.md §4.3.
func (ps *PartialSolution) Satisfies(incomp *Incompatibility) Satisfaction {
	var except pkggraph.Term
	exceptSet := false
	allTrue := true

	for _, t := range incomp.Terms {
		cur := ps.currentTerm(t.Package)
		switch cur.Relation(t) {
		case pkggraph.RelationSubset:
			// guaranteed true; contributes nothing further
			continue
		case pkggraph.RelationDisjoint:
			// guaranteed false; this incompatibility can never fire
			return Satisfaction{Status: Unsatisfied}
		default:
			allTrue = false
			if exceptSet {
				// more than one undetermined term: not almost-satisfied
				return Satisfaction{Status: Unsatisfied}
			}
			except, exceptSet = t, true
		}
	}

	switch {
	case allTrue:
		return Satisfaction{Status: Satisfied}
	case exceptSet:
		return Satisfaction{Status: AlmostSatisfied, Except: except}
	default:
		return Satisfaction{Status: Unsatisfied}
	}
}

// Backtrack drops every assignment whose level is strictly greater than
// toLevel and rebuilds the positive-intersection cache from what remains.
func (ps *PartialSolution) Backtrack(toLevel int) {
	if toLevel < 0 {
		toLevel = 0
	}
	cut := len(ps.assignments)
	for cut > 0 && ps.assignments[cut-1].Level > toLevel {
		cut--
	}
	kept := ps.assignments[:cut]

	ps.assignments = append([]Assignment(nil), kept...)
	ps.perPackage = make(map[pkggraph.PackageIdentity][]int)
	ps.positive = make(map[pkggraph.PackageIdentity]pkggraph.Term)
	for i, a := range ps.assignments {
		ps.perPackage[a.Term.Package] = append(ps.perPackage[a.Term.Package], i)
		if a.Term.Positive {
			if cur, ok := ps.positive[a.Term.Package]; ok {
				ps.positive[a.Term.Package] = cur.Intersect(a.Term, ps.rr)
			} else {
				ps.positive[a.Term.Package] = a.Term
			}
		}
	}
	ps.level = toLevel
}

// EarliestSatisfier returns the smallest prefix of assignments that already
// satisfies incomp, together with the highest decision level among that
// prefix excluding the satisfier's own assignment (spec.md §4.3).
func (ps *PartialSolution) EarliestSatisfier(incomp *Incompatibility) (Assignment, int) {
	running := make(map[pkggraph.PackageIdentity]pkggraph.Term)
	currentOf := func(pkg pkggraph.PackageIdentity) pkggraph.Term {
		if t, ok := running[pkg]; ok {
			return t
		}
		return pkggraph.NewTerm(pkg, pkggraph.VersionSetRequirement(pkggraph.AnyVersionSet()))
	}
	satisfiedSoFar := func() bool {
		for _, t := range incomp.Terms {
			if currentOf(t.Package).Relation(t) != pkggraph.RelationSubset {
				return false
			}
		}
		return true
	}

	for _, a := range ps.assignments {
		if a.Term.Positive {
			if cur, ok := running[a.Term.Package]; ok {
				running[a.Term.Package] = cur.Intersect(a.Term, ps.rr)
			} else {
				running[a.Term.Package] = a.Term
			}
		}
		if satisfiedSoFar() {
			previous := 0
			for _, prior := range ps.assignments[:a.Index] {
				if prior.Level > previous {
					previous = prior.Level
				}
			}
			return a, previous
		}
	}
	return Assignment{}, 0
}

// DecidedVersion returns the decided version for pkg, if any decision has
// been made for it.
func (ps *PartialSolution) DecidedVersion(pkg pkggraph.PackageIdentity) (pkggraph.Version, bool) {
	for _, idx := range ps.perPackage[pkg] {
		a := ps.assignments[idx]
		if a.Kind == AssignmentDecision && !a.Version.IsZero() {
			return a.Version, true
		}
	}
	return pkggraph.Version{}, false
}

// HasDecision reports whether pkg has any decision assignment.
func (ps *PartialSolution) HasDecision(pkg pkggraph.PackageIdentity) bool {
	for _, idx := range ps.perPackage[pkg] {
		if ps.assignments[idx].Kind == AssignmentDecision {
			return true
		}
	}
	return false
}

// UndecidedPackages returns, in first-seen order, every non-root package
// with a positive constraint but no decision yet.
func (ps *PartialSolution) UndecidedPackages() []pkggraph.PackageIdentity {
	seen := make(map[pkggraph.PackageIdentity]bool)
	var out []pkggraph.PackageIdentity
	for _, a := range ps.assignments {
		pkg := a.Term.Package
		if pkg == ps.root || seen[pkg] {
			continue
		}
		seen[pkg] = true
		if _, positive := ps.positive[pkg]; positive && !ps.HasDecision(pkg) {
			out = append(out, pkg)
		}
	}
	return out
}

// Bindings returns the final version chosen for every decided, non-root
// package.
func (ps *PartialSolution) Bindings() map[pkggraph.PackageIdentity]pkggraph.Version {
	out := make(map[pkggraph.PackageIdentity]pkggraph.Version)
	for _, a := range ps.assignments {
		if a.Kind == AssignmentDecision && !a.Version.IsZero() {
			out[a.Term.Package] = a.Version
		}
	}
	return out
}

// Level reports the current decision level.
func (ps *PartialSolution) Level() int { return ps.level }

func (ps *PartialSolution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "level=%d assignments=%d\n", ps.level, len(ps.assignments))
	for _, a := range ps.assignments {
		fmt.Fprintf(&b, "  %s\n", a)
	}
	return b.String()
}

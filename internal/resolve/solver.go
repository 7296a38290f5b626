package resolve

import (
	"context"
	"sort"

	"github.com/golang/groupcache/lru"
	"github.com/pkg/errors"

	"github.com/pkggraph/pkggraph"
	"github.com/pkggraph/pkggraph/log"
)

// Solver drives a PackageProvider through propagate/decide/backtrack until
// it finds a version assignment satisfying every declared dependency, or
// proves none exists, per spec.md §4.4.
type Solver struct {
	provider pkggraph.PackageProvider
	guard    pkggraph.ToolsVersion
	rr       pkggraph.RevisionResolver
	logger   *log.Logger

	store *Store
	ps    *PartialSolution

	// candidates caches each container's newest-first version list for the
	// life of one run, keyed by package identity; a run never needs a
	// container's unfiltered list more than once, but decision-making may
	// revisit a package many times across backtracks. Per SPEC_FULL.md's
	// DOMAIN STACK entry for groupcache/lru.
	candidates *lru.Cache
}

// New returns a Solver that resolves against provider. guard is stored on
// the Solver; Solve does not consult it, so excluding versions by
// tools-version is left to the provider's containers.
func New(provider pkggraph.PackageProvider, guard pkggraph.ToolsVersion, rr pkggraph.RevisionResolver, logger *log.Logger) *Solver {
	if logger == nil {
		logger = log.New(discardWriter{})
	}
	return &Solver{
		provider:   provider,
		guard:      guard,
		rr:         rr,
		logger:     logger,
		candidates: lru.New(256),
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Solve resolves root's declared dependencies, returning the decided
// version for every non-root package reached, or an *pkggraph.UnsatisfiableError
// wrapping the derivation tree if no assignment exists.
func (s *Solver) Solve(ctx context.Context, root *pkggraph.Manifest) (map[pkggraph.PackageIdentity]pkggraph.Version, error) {
	s.store = NewStore()
	s.ps = NewPartialSolution(root.Identity, s.rr)
	s.ps.SeedRoot()

	var worklist []pkggraph.PackageIdentity
	for _, dep := range root.Dependencies {
		incomp := Incompatibility{
			Terms: []pkggraph.Term{pkggraph.NewTerm(dep.Ref.Identity, dep.Req).Negate()},
			Cause: pkggraph.CauseRoot,
		}
		s.store.Insert(incomp, s.rr)
		worklist = append(worklist, dep.Ref.Identity)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conflict, err := s.propagate(worklist)
		if err != nil {
			return nil, err
		}
		if conflict != noIncompatibility {
			pivot, failure := s.resolveConflict(conflict)
			if failure != nil {
				return nil, failure
			}
			worklist = []pkggraph.PackageIdentity{pivot}
			continue
		}

		pkg, ok, err := s.nextUndecided(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return s.ps.Bindings(), nil
		}

		next, decErr := s.decide(ctx, pkg)
		if decErr != nil {
			return nil, decErr
		}
		worklist = next
	}
}

// propagate runs unit propagation to a fixed point, returning the first
// incompatibility found Satisfied, or noIncompatibility if the worklist
// drains cleanly (spec.md §4.3's changed-worklist loop).
func (s *Solver) propagate(worklist []pkggraph.PackageIdentity) (IncompatibilityID, error) {
	queue := append([]pkggraph.PackageIdentity(nil), worklist...)
	queued := make(map[pkggraph.PackageIdentity]bool, len(queue))
	for _, p := range queue {
		queued[p] = true
	}

	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		queued[pkg] = false

		for _, id := range s.store.ForPackage(pkg) {
			incomp := s.store.Get(id)
			sat := s.ps.Satisfies(incomp)
			switch sat.Status {
			case Satisfied:
				return id, nil
			case AlmostSatisfied:
				derived := sat.Except.Negate()
				s.ps.Derive(derived, id)
				if !queued[derived.Package] {
					queue = append(queue, derived.Package)
					queued[derived.Package] = true
				}
			}
		}
	}
	return noIncompatibility, nil
}

// resolveConflict applies spec.md §4.4's resolution rule until the
// incompatibility is resolvable by backtracking, or the root is implicated
// (global failure). It returns the package to resume propagation from.
func (s *Solver) resolveConflict(id IncompatibilityID) (pkggraph.PackageIdentity, error) {
	for {
		incomp := s.store.Get(id)

		satisfier, previousLevel := s.ps.EarliestSatisfier(incomp)
		if satisfier.Term.Package == "" {
			return "", &pkggraph.UnsatisfiableError{Tree: s.store.ToErrorTree(id)}
		}
		if satisfier.Level == 0 && satisfier.Kind == AssignmentDecision {
			return "", &pkggraph.UnsatisfiableError{Tree: s.store.ToErrorTree(id)}
		}

		if satisfier.Kind == AssignmentDecision || satisfier.Level > previousLevel {
			s.logger.Tracef("resolve", "backtrack to level %d, resuming from %s", previousLevel, satisfier.Term.Package)
			s.ps.Backtrack(previousLevel)
			return satisfier.Term.Package, nil
		}

		if satisfier.Cause == noIncompatibility {
			return "", &pkggraph.UnsatisfiableError{Tree: s.store.ToErrorTree(id)}
		}

		cause := s.store.Get(satisfier.Cause)
		merged := mergeExcluding(incomp.Terms, cause.Terms, satisfier.Term.Package)
		id = s.store.Insert(Incompatibility{
			Terms:  merged,
			Cause:  pkggraph.CauseConflict,
			Cause1: id,
			Cause2: satisfier.Cause,
		}, s.rr)
	}
}

// mergeExcluding concatenates a and b's terms, dropping the one on pkg from
// each side: that term is exactly what the satisfying assignment forced,
// and the resolution rule derives a weaker incompatibility that no longer
// depends on it. normalize (run inside Store.Insert) folds any remaining
// same-package terms back together.
func mergeExcluding(a, b []pkggraph.Term, pkg pkggraph.PackageIdentity) []pkggraph.Term {
	out := make([]pkggraph.Term, 0, len(a)+len(b))
	for _, t := range a {
		if t.Package != pkg {
			out = append(out, t)
		}
	}
	for _, t := range b {
		if t.Package != pkg {
			out = append(out, t)
		}
	}
	return out
}

// nextUndecided picks the undecided package with the fewest admissible
// candidate versions, per spec.md §4.4: fewer candidates first, ties broken
// lexicographically by identity, so a hard-to-satisfy package fails fast.
func (s *Solver) nextUndecided(ctx context.Context) (pkggraph.PackageIdentity, bool, error) {
	undecided := s.ps.UndecidedPackages()
	if len(undecided) == 0 {
		return "", false, nil
	}

	type candidate struct {
		pkg   pkggraph.PackageIdentity
		count int
	}
	ranked := make([]candidate, 0, len(undecided))
	for _, pkg := range undecided {
		req, _ := s.ps.PositiveIntersection(pkg)
		if req.Req.IsEmpty() {
			// unsatisfiable already; surface it immediately as a
			// zero-candidate pick so the caller's decide() step turns it
			// into a NoAvailableVersion incompatibility.
			return pkg, true, nil
		}
		versions, err := s.versionsFor(ctx, pkg, req.Req)
		if err != nil {
			return "", false, err
		}
		ranked = append(ranked, candidate{pkg: pkg, count: len(versions)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count < ranked[j].count
		}
		return ranked[i].pkg < ranked[j].pkg
	})
	return ranked[0].pkg, true, nil
}

// decide fetches pkg's admissible versions newest-first and tries each in
// turn, registering its dependency incompatibilities, until one doesn't
// immediately conflict with the partial solution. If none work, it records
// a NoAvailableVersion incompatibility instead of deciding, per spec.md
// §4.4's "no admissible version" branch.
func (s *Solver) decide(ctx context.Context, pkg pkggraph.PackageIdentity) ([]pkggraph.PackageIdentity, error) {
	term := currentPositiveOrAny(s.ps, pkg)
	versions, err := s.versionsFor(ctx, pkg, term.Req)
	if err != nil {
		return nil, err
	}

	for _, v := range versions {
		deps, err := s.dependenciesAt(ctx, pkg, v)
		if err != nil {
			return nil, err
		}

		conflicts := false
		for _, dep := range deps {
			incomp := NewFromDependency(pkg, v, pkggraph.NewTerm(dep.Ref.Identity, dep.Req))
			id := s.store.Insert(incomp, s.rr)
			if s.ps.Satisfies(s.store.Get(id)).Status == Satisfied {
				conflicts = true
			}
		}
		if conflicts {
			continue
		}

		s.logger.Tracef("resolve", "decide %s@%s", pkg, v)
		s.ps.Decide(pkg, v)
		worklist := []pkggraph.PackageIdentity{pkg}
		for _, dep := range deps {
			worklist = append(worklist, dep.Ref.Identity)
		}
		return worklist, nil
	}

	s.store.Insert(NewNoAvailableVersion(term), s.rr)
	return []pkggraph.PackageIdentity{pkg}, nil
}

func (s *Solver) versionsFor(ctx context.Context, pkg pkggraph.PackageIdentity, req pkggraph.Requirement) ([]pkggraph.Version, error) {
	all, err := s.allVersions(ctx, pkg)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, v := range all {
		if req.Contains(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Solver) allVersions(ctx context.Context, pkg pkggraph.PackageIdentity) ([]pkggraph.Version, error) {
	if cached, ok := s.candidates.Get(pkg); ok {
		return cached.([]pkggraph.Version), nil
	}
	container, err := s.provider.ContainerFor(ctx, pkggraph.PackageRef{Name: string(pkg), Identity: pkg})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph: resolving container for %s", pkg)
	}
	versions, err := container.Versions(ctx, anyFilter{})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph: listing versions for %s", pkg)
	}
	s.candidates.Add(pkg, versions)
	return versions, nil
}

func (s *Solver) dependenciesAt(ctx context.Context, pkg pkggraph.PackageIdentity, v pkggraph.Version) ([]pkggraph.Dependency, error) {
	container, err := s.provider.ContainerFor(ctx, pkggraph.PackageRef{Name: string(pkg), Identity: pkg})
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph: resolving container for %s", pkg)
	}
	deps, err := container.DependenciesAt(ctx, v)
	if err != nil {
		return nil, errors.Wrapf(err, "pkggraph: reading dependencies of %s@%s", pkg, v)
	}
	return deps, nil
}

type anyFilter struct{}

func (anyFilter) Contains(pkggraph.Version) bool { return true }

// currentPositiveOrAny returns pkg's accumulated positive term, or an
// unconstrained one if the partial solution has never derived a positive
// fact about it (possible when every edge into pkg is negative so far).
func currentPositiveOrAny(ps *PartialSolution, pkg pkggraph.PackageIdentity) pkggraph.Term {
	if t, ok := ps.PositiveIntersection(pkg); ok {
		return t
	}
	return pkggraph.NewTerm(pkg, pkggraph.VersionSetRequirement(pkggraph.AnyVersionSet()))
}

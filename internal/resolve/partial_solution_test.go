package resolve

import (
	"testing"

	"github.com/pkggraph/pkggraph"
)

func TestPartialSolutionDecideAndBindings(t *testing.T) {
	ps := NewPartialSolution("root", nil)
	ps.SeedRoot()
	ps.Decide("a", ver("1.0.0"))
	ps.Decide("b", ver("2.0.0"))

	bindings := ps.Bindings()
	if bindings["a"].String() != "1.0.0" || bindings["b"].String() != "2.0.0" {
		t.Fatalf("unexpected bindings: %v", bindings)
	}
	if !ps.HasDecision("a") {
		t.Fatal("expected a to have a decision")
	}
	if ps.HasDecision("c") {
		t.Fatal("did not expect c to have a decision")
	}
}

func TestPartialSolutionPositiveIntersectionNarrows(t *testing.T) {
	ps := NewPartialSolution("root", nil)
	ps.Derive(pkggraph.NewTerm("a", atLeastReq("1.0.0")), noIncompatibility)
	ps.Derive(pkggraph.NewTerm("a", belowReq("3.0.0")), noIncompatibility)

	got, ok := ps.PositiveIntersection("a")
	if !ok {
		t.Fatal("expected a cached positive intersection for a")
	}
	if !got.Req.Contains(ver("2.0.0")) {
		t.Fatal("expected 2.0.0 to be within the intersected range")
	}
	if got.Req.Contains(ver("3.0.0")) {
		t.Fatal("did not expect 3.0.0 to satisfy the upper-bounded intersection")
	}
}

func TestPartialSolutionSatisfiesClassifiesStatus(t *testing.T) {
	ps := NewPartialSolution("root", nil)
	ps.Decide("a", ver("1.5.0"))

	satisfied := &Incompatibility{Terms: []pkggraph.Term{pkggraph.NewTerm("a", atLeastReq("1.0.0"))}}
	if ps.Satisfies(satisfied).Status != Satisfied {
		t.Fatal("expected the incompatibility to be Satisfied given a's decided version")
	}

	unsatisfiable := &Incompatibility{Terms: []pkggraph.Term{pkggraph.NewTerm("a", exactReq("9.9.9"))}}
	if ps.Satisfies(unsatisfiable).Status != Unsatisfied {
		t.Fatal("expected the incompatibility to be Unsatisfied, a is disjoint from the pinned term")
	}

	almost := &Incompatibility{Terms: []pkggraph.Term{
		pkggraph.NewTerm("a", atLeastReq("1.0.0")),
		pkggraph.NewTerm("b", atLeastReq("1.0.0")),
	}}
	sat := ps.Satisfies(almost)
	if sat.Status != AlmostSatisfied || sat.Except.Package != "b" {
		t.Fatalf("expected AlmostSatisfied on b, got %+v", sat)
	}
}

func TestPartialSolutionBacktrackDropsHigherLevels(t *testing.T) {
	ps := NewPartialSolution("root", nil)
	ps.Decide("a", ver("1.0.0")) // level 1
	ps.Decide("b", ver("2.0.0")) // level 2
	ps.Decide("c", ver("3.0.0")) // level 3

	ps.Backtrack(1)
	if ps.Level() != 1 {
		t.Fatalf("expected level 1 after backtrack, got %d", ps.Level())
	}
	if !ps.HasDecision("a") {
		t.Fatal("expected a's decision to survive backtracking to its own level")
	}
	if ps.HasDecision("b") || ps.HasDecision("c") {
		t.Fatal("expected b and c's decisions to be dropped")
	}
}

func TestPartialSolutionEarliestSatisfier(t *testing.T) {
	ps := NewPartialSolution("root", nil)
	ps.Decide("a", ver("1.0.0"))
	ps.Decide("b", ver("2.0.0"))

	incomp := &Incompatibility{Terms: []pkggraph.Term{
		pkggraph.NewTerm("a", exactReq("1.0.0")),
		pkggraph.NewTerm("b", exactReq("2.0.0")),
	}}
	satisfier, _ := ps.EarliestSatisfier(incomp)
	if satisfier.Term.Package != "b" {
		t.Fatalf("expected b's decision to be the earliest satisfier (last term to become true), got %s", satisfier.Term.Package)
	}
}

func TestPartialSolutionUndecidedPackages(t *testing.T) {
	ps := NewPartialSolution("root", nil)
	ps.SeedRoot()
	ps.Derive(pkggraph.NewTerm("a", atLeastReq("1.0.0")), noIncompatibility)
	ps.Decide("b", ver("1.0.0"))
	ps.Derive(pkggraph.NewTerm("b", atLeastReq("1.0.0")), noIncompatibility)

	undecided := ps.UndecidedPackages()
	if len(undecided) != 1 || undecided[0] != "a" {
		t.Fatalf("expected only a to be undecided, got %v", undecided)
	}
}

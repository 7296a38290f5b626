package resolve

import (
	"fmt"

	"github.com/pkggraph/pkggraph"
)

// AssignmentKind distinguishes a resolver-chosen decision from a fact
// forced by unit propagation.
type AssignmentKind int8

const (
	AssignmentDecision AssignmentKind = iota
	AssignmentDerivation
)

// Assignment is one entry in a PartialSolution: spec.md §3's
// decision(term, level) or derivation(term, cause, level).
type Assignment struct {
	Kind  AssignmentKind
	Term  pkggraph.Term
	Level int
	// Cause is the incompatibility that forced a derivation; meaningless
	// for decisions.
	Cause IncompatibilityID
	// Index is the assignment's position in chronological order, used to
	// find the earliest satisfier of an incompatibility.
	Index int
	// Version is set on decisions: the concrete version chosen.
	Version pkggraph.Version
}

func (a Assignment) String() string {
	if a.Kind == AssignmentDecision {
		return fmt.Sprintf("decide(%s@%s, level=%d)", a.Term.Package, a.Version, a.Level)
	}
	return fmt.Sprintf("derive(%s, level=%d)", a.Term, a.Level)
}

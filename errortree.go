package pkggraph

import (
	"fmt"
	"sort"
	"strings"
)

// Cause classifies why an Incompatibility exists.
type Cause int8

const (
	CauseRoot Cause = iota
	CauseDependency
	CauseNoAvailableVersion
	CauseConflict
)

func (c Cause) String() string {
	switch c {
	case CauseRoot:
		return "root"
	case CauseDependency:
		return "dependency"
	case CauseNoAvailableVersion:
		return "noAvailableVersion"
	case CauseConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// ErrorTree is the unsatisfiability report spec.md §4.4/§7 calls for: a DAG
// of incompatibilities rooted at the terminal conflict, rendered as a tree
// of its causes. internal/resolve builds one from its own arena-indexed
// incompatibility store when the resolver fails globally.
type ErrorTree struct {
	Terms       []Term
	Cause       Cause
	// DependencyPackage/DependencyVersion are set when Cause ==
	// CauseDependency: the parent package@version whose declared
	// dependency produced this incompatibility.
	DependencyPackage PackageIdentity
	DependencyVersion Version
	// Children holds the two causes of a CauseConflict node (resolution
	// inputs); empty for leaves (CauseRoot, CauseDependency,
	// CauseNoAvailableVersion).
	Children []*ErrorTree
}

// involvedPackages returns the sorted, deduplicated set of package
// identities named by this node's terms.
func (t *ErrorTree) involvedPackages() []PackageIdentity {
	seen := map[PackageIdentity]bool{}
	for _, term := range t.Terms {
		seen[term.Package] = true
	}
	out := make([]PackageIdentity, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RootCauses collects the tree's leaves (the underivable facts at the
// bottom of the resolution), ordered alphabetically by the first involved
// package identity, per DESIGN.md's resolution of spec.md §9 Open Question
// (b).
func (t *ErrorTree) RootCauses() []*ErrorTree {
	var leaves []*ErrorTree
	var walk func(*ErrorTree)
	walk = func(n *ErrorTree) {
		if n == nil {
			return
		}
		if len(n.Children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t)
	sort.SliceStable(leaves, func(i, j int) bool {
		pi, pj := leaves[i].involvedPackages(), leaves[j].involvedPackages()
		switch {
		case len(pi) == 0:
			return false
		case len(pj) == 0:
			return true
		default:
			return pi[0] < pj[0]
		}
	})
	return leaves
}

// Report renders the tree as a human-readable derivation, newest reasoning
// last, mirroring the "Because ... and ... therefore ..." shape used by
// PubGrub-family reporters.
func (t *ErrorTree) Report() string {
	var lines []string
	t.report(&lines, 0, map[*ErrorTree]bool{})
	return strings.Join(lines, "\n")
}

func (t *ErrorTree) report(lines *[]string, depth int, visited map[*ErrorTree]bool) {
	if t == nil || visited[t] {
		return
	}
	visited[t] = true
	indent := strings.Repeat("  ", depth)

	switch t.Cause {
	case CauseNoAvailableVersion:
		if len(t.Terms) > 0 {
			*lines = append(*lines, fmt.Sprintf("%sno versions of %s satisfy the constraint", indent, t.Terms[0]))
		}
	case CauseDependency:
		if len(t.Terms) == 2 {
			dep := t.Terms[1]
			if !dep.Positive {
				dep = dep.Negate()
			}
			*lines = append(*lines, fmt.Sprintf("%sbecause %s %s depends on %s",
				indent, t.DependencyPackage, t.DependencyVersion, dep))
		}
	case CauseConflict:
		if len(t.Children) == 2 {
			*lines = append(*lines, fmt.Sprintf("%sbecause:", indent))
			t.Children[0].report(lines, depth+1, visited)
			*lines = append(*lines, fmt.Sprintf("%sand:", indent))
			t.Children[1].report(lines, depth+1, visited)
		}
		switch len(t.Terms) {
		case 0:
			*lines = append(*lines, fmt.Sprintf("%sversion solving has failed", indent))
		case 1:
			*lines = append(*lines, fmt.Sprintf("%s%s is forbidden", indent, t.Terms[0]))
		default:
			strs := make([]string, len(t.Terms))
			for i, term := range t.Terms {
				strs[i] = term.String()
			}
			*lines = append(*lines, fmt.Sprintf("%sthese constraints conflict: %s", indent, strings.Join(strs, " and ")))
		}
	default:
		if len(t.Terms) > 0 {
			strs := make([]string, len(t.Terms))
			for i, term := range t.Terms {
				strs[i] = term.String()
			}
			*lines = append(*lines, fmt.Sprintf("%s%s", indent, strings.Join(strs, ", ")))
		}
	}
}

// UnsatisfiableError is returned by Resolve when no assignment satisfies
// the root manifest's declared dependencies.
type UnsatisfiableError struct {
	Tree *ErrorTree
}

func (e *UnsatisfiableError) Error() string {
	if e.Tree == nil {
		return "no solution found"
	}
	return e.Tree.Report()
}

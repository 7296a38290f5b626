package graph

import (
	"github.com/pkggraph/pkggraph"
)

const suggestionThreshold = 2

// resolveEdges walks every target's declared dependencies and attaches a
// resolved pkggraph.ModuleEdge to its destination-triple ModuleInstance,
// per spec.md §4.6 "Edge resolution". It also applies the test-dependency
// rule and trait-conditional filtering; platform/configuration conditions
// are preserved unchanged on surviving edges.
func resolveEdges(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, modules map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, products map[pkggraph.ProductKey]*pkggraph.ProductInstance, enabled map[pkggraph.PackageIdentity]map[string]bool, toolsVersion pkggraph.ToolsVersion, diags *pkggraph.Diagnostics) {
	for _, m := range manifests {
		directDeps := make(map[pkggraph.PackageIdentity]*pkggraph.Manifest)
		for _, d := range m.Dependencies {
			if dm, ok := manifests[d.Ref.Identity]; ok {
				directDeps[d.Ref.Identity] = dm
			}
		}

		for _, t := range m.Targets {
			self := modules[pkggraph.ModuleKey{Name: t.Name, Triple: pkggraph.TripleDestination}]
			for _, dep := range t.Dependencies {
				if !dep.Cond.TraitsSatisfiedBy(enabled[m.Identity]) {
					continue
				}

				edge, ok := resolveOne(m, t, dep, directDeps, toolsVersion)
				if !ok {
					reportUnresolved(diags, m, t, dep, directDeps)
					continue
				}

				if tm, isTarget := targetOf(manifests, modules, edge); isTarget {
					if tm.Kind == pkggraph.TargetTest && t.Kind != pkggraph.TargetTest {
						diags.Errorf(m.Identity, m.Name,
							"Invalid dependency: '%s' cannot depend on test target dependency '%s'. Only test targets can depend on other test targets.",
							t.Name, tm.Key.Name)
						continue
					}
				}

				self.Dependencies = append(self.Dependencies, edge)
			}
		}
	}
}

// resolveOne resolves one declared target dependency to a local target or
// a cross-package product.
func resolveOne(m *pkggraph.Manifest, t pkggraph.Target, dep pkggraph.TargetDependency, directDeps map[pkggraph.PackageIdentity]*pkggraph.Manifest, toolsVersion pkggraph.ToolsVersion) (pkggraph.ModuleEdge, bool) {
	cond := pkggraph.Condition{Platforms: dep.Cond.Platforms, Configuration: dep.Cond.Configuration}

	if dep.Package == "" {
		if _, ok := m.TargetByName(dep.Name); ok {
			return pkggraph.ModuleEdge{ToModule: pkggraph.ModuleKey{Name: dep.Name, Triple: pkggraph.TripleDestination}, Cond: cond}, true
		}
	}

	if dep.Package != "" || !toolsVersion.RequiresExplicitProductReference() {
		for id, dm := range directDeps {
			if dep.Package != "" && string(id) != dep.Package && dm.Name != dep.Package {
				continue
			}
			for _, p := range dm.Products {
				if p.Name == dep.Name {
					return pkggraph.ModuleEdge{
						ToProduct: pkggraph.ProductKey{Name: p.Name, Triple: pkggraph.TripleDestination},
						IsProduct: true,
						Cond:      cond,
					}, true
				}
			}
		}
	}

	return pkggraph.ModuleEdge{}, false
}

func targetOf(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, modules map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, edge pkggraph.ModuleEdge) (*pkggraph.ModuleInstance, bool) {
	if edge.IsProduct {
		return nil, false
	}
	mod, ok := modules[edge.ToModule]
	return mod, ok
}

func reportUnresolved(diags *pkggraph.Diagnostics, m *pkggraph.Manifest, t pkggraph.Target, dep pkggraph.TargetDependency, directDeps map[pkggraph.PackageIdentity]*pkggraph.Manifest) {
	var candidates []string
	for _, other := range m.Targets {
		if other.Name != t.Name {
			candidates = append(candidates, other.Name)
		}
	}
	for _, dm := range directDeps {
		for _, p := range dm.Products {
			candidates = append(candidates, p.Name)
		}
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein(dep.Name, c)
		if bestDist == -1 || d < bestDist {
			best, bestDist = c, d
		}
	}

	if bestDist >= 0 && bestDist <= suggestionThreshold {
		diags.Errorf(m.Identity, m.Name, "dependency '%s' of target '%s' not found; did you mean '%s'?", dep.Name, t.Name, best)
		return
	}
	diags.Errorf(m.Identity, m.Name, "dependency '%s' of target '%s' not found", dep.Name, t.Name)
}

// levenshtein computes the edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

package graph

import "github.com/pkggraph/pkggraph"

// checkUnusedDependencies warns about a root dependency whose products are
// never referenced by any surviving target edge, per spec.md §4.6, except
// for system-module packages and when the root opted into pruneDependencies
// (in which case the dependency is silently absent from the graph instead).
func checkUnusedDependencies(root *pkggraph.Manifest, manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, reachable map[pkggraph.ModuleKey]bool, diags *pkggraph.Diagnostics) {
	if root.PruneDependencies {
		return
	}

	for _, dep := range root.Dependencies {
		dm, ok := manifests[dep.Ref.Identity]
		if !ok {
			continue
		}
		if isSystemOnly(dm) {
			continue
		}

		used := false
		for _, t := range dm.Targets {
			if reachable[pkggraph.ModuleKey{Name: t.Name, Triple: pkggraph.TripleDestination}] {
				used = true
				break
			}
		}
		if !used {
			diags.Warnf(root.Identity, root.Name, "dependency '%s' is not used by any target", dep.Ref.Name)
		}
	}
}

func isSystemOnly(m *pkggraph.Manifest) bool {
	if len(m.Targets) == 0 {
		return false
	}
	for _, t := range m.Targets {
		if t.Kind != pkggraph.TargetSystem {
			return false
		}
	}
	return true
}

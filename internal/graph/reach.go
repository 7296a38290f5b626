package graph

import "github.com/pkggraph/pkggraph"

// reachablePackages returns the set of package identities reachable from
// root by walking declared package dependencies, restricted to manifests
// actually present in the input (callers are expected to pass an already
// resolved, closed set; this guards against stray extras).
func reachablePackages(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, root pkggraph.PackageIdentity) map[pkggraph.PackageIdentity]bool {
	seen := map[pkggraph.PackageIdentity]bool{root: true}
	queue := []pkggraph.PackageIdentity{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		m, ok := manifests[id]
		if !ok {
			continue
		}
		for _, dep := range m.Dependencies {
			if !seen[dep.Ref.Identity] {
				seen[dep.Ref.Identity] = true
				queue = append(queue, dep.Ref.Identity)
			}
		}
	}
	return seen
}

// reachableModules walks the destination-triple target-dependency graph
// (product edges expanded to their members) starting from root's product
// members and its non-library targets, returning the reachable module
// keys. A target that nothing reaches this way is, by construction,
// exactly the set spec.md §4.5's dependency-pruning and §4.6's
// unused-dependency detection both care about.
func reachableModules(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, modules map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, products map[pkggraph.ProductKey]*pkggraph.ProductInstance, reachablePkgs map[pkggraph.PackageIdentity]bool, root pkggraph.PackageIdentity) map[pkggraph.ModuleKey]bool {
	seen := make(map[pkggraph.ModuleKey]bool)
	var queue []pkggraph.ModuleKey

	seedPkg := func(id pkggraph.PackageIdentity, onlyRootStyle bool) {
		m, ok := manifests[id]
		if !ok {
			return
		}
		for _, p := range m.Products {
			for _, name := range p.Members {
				key := pkggraph.ModuleKey{Name: name, Triple: pkggraph.TripleDestination}
				if !seen[key] {
					seen[key] = true
					queue = append(queue, key)
				}
			}
		}
		if onlyRootStyle {
			for _, t := range m.Targets {
				if t.Kind == pkggraph.TargetExecutable || t.Kind == pkggraph.TargetTest || t.Kind == pkggraph.TargetBinary {
					key := pkggraph.ModuleKey{Name: t.Name, Triple: pkggraph.TripleDestination}
					if !seen[key] {
						seen[key] = true
						queue = append(queue, key)
					}
				}
			}
		}
	}

	seedPkg(root, true)
	for id := range reachablePkgs {
		if id != root {
			seedPkg(id, false)
		}
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		mod, ok := modules[key]
		if !ok {
			continue
		}
		for _, next := range successors(mod, products) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

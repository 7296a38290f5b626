package graph

import "github.com/pkggraph/pkggraph"

// toolsClosure computes the set of destination-triple module keys that
// must also exist as a tools-triple instance: every macro/plugin module,
// everything reachable forward from one via target-dependency edges (a
// host tool needs its own dependencies built for the tools triple too),
// and anything that in turn depends on a module already in the closure
// (a test or binary that exercises a tools-only target is itself built
// for the tools triple), iterated to a fixed point per spec.md §4.6
// "Cross-compile triple assignment".
func toolsClosure(reachable map[pkggraph.ModuleKey]bool, modules map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, products map[pkggraph.ProductKey]*pkggraph.ProductInstance) map[pkggraph.ModuleKey]bool {
	closure := make(map[pkggraph.ModuleKey]bool)
	for key := range reachable {
		mod, ok := modules[key]
		if ok && (mod.Kind == pkggraph.TargetPlugin || mod.Kind == pkggraph.TargetMacro) {
			closure[key] = true
		}
	}

	for {
		changed := false

		// forward: a tools-context module's own dependencies join too.
		for key := range closure {
			mod, ok := modules[key]
			if !ok {
				continue
			}
			for _, next := range successors(mod, products) {
				if reachable[next] && !closure[next] {
					closure[next] = true
					changed = true
				}
			}
		}

		// backward: anything depending on a tools-context module joins too.
		for key := range reachable {
			if closure[key] {
				continue
			}
			mod, ok := modules[key]
			if !ok {
				continue
			}
			for _, next := range successors(mod, products) {
				if closure[next] {
					closure[key] = true
					changed = true
					break
				}
			}
		}

		if !changed {
			break
		}
	}
	return closure
}

// instantiateTools adds a tools-triple ModuleInstance and, where a product
// has at least one tools-triple member, a tools-triple ProductInstance, for
// every module in closure, per spec.md §4.6: both triples are retained
// when both are reachable.
func instantiateTools(closure map[pkggraph.ModuleKey]bool, modules map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, products map[pkggraph.ProductKey]*pkggraph.ProductInstance) {
	for key := range closure {
		dest, ok := modules[key]
		if !ok {
			continue
		}
		toolsKey := pkggraph.ModuleKey{Name: key.Name, Triple: pkggraph.TripleTools}
		tools := &pkggraph.ModuleInstance{
			Key:               toolsKey,
			Package:           dest.Package,
			Kind:              dest.Kind,
			DeclaredPlatforms: dest.DeclaredPlatforms,
			DerivedPlatforms:  dest.DerivedPlatforms,
			Defines:           dest.Defines,
		}
		for _, e := range dest.Dependencies {
			if !e.IsProduct && closure[e.ToModule] {
				e.ToModule = pkggraph.ModuleKey{Name: e.ToModule.Name, Triple: pkggraph.TripleTools}
			}
			tools.Dependencies = append(tools.Dependencies, e)
		}
		modules[toolsKey] = tools
	}

	for pkey, p := range products {
		if pkey.Triple != pkggraph.TripleDestination {
			continue
		}
		var toolsMembers []pkggraph.ModuleKey
		for _, m := range p.Members {
			if closure[m] {
				toolsMembers = append(toolsMembers, pkggraph.ModuleKey{Name: m.Name, Triple: pkggraph.TripleTools})
			}
		}
		if len(toolsMembers) > 0 {
			toolsKey := pkggraph.ProductKey{Name: pkey.Name, Triple: pkggraph.TripleTools}
			products[toolsKey] = &pkggraph.ProductInstance{Key: toolsKey, Package: p.Package, Type: p.Type, Members: toolsMembers}
		}
	}
}

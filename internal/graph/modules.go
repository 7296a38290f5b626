package graph

import "github.com/pkggraph/pkggraph"

// buildModules creates one destination-triple ModuleInstance per declared
// target across every manifest, and one destination-triple ProductInstance
// per declared product. Construction never filters anything out; that's
// reachability and triple propagation's job.
func buildModules(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, platforms pkggraph.PlatformTable, probe pkggraph.FileExistenceProbe, diags *pkggraph.Diagnostics) (map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, map[pkggraph.ProductKey]*pkggraph.ProductInstance, map[pkggraph.ModuleKey]pkggraph.Target) {
	modules := make(map[pkggraph.ModuleKey]*pkggraph.ModuleInstance)
	products := make(map[pkggraph.ProductKey]*pkggraph.ProductInstance)
	targetByKey := make(map[pkggraph.ModuleKey]pkggraph.Target)

	referencedByProduct := make(map[string]bool)
	for _, m := range manifests {
		for _, p := range m.Products {
			for _, name := range p.Members {
				referencedByProduct[string(m.Identity)+"/"+name] = true
			}
		}
	}

	for _, m := range manifests {
		for _, t := range m.Targets {
			key := pkggraph.ModuleKey{Name: t.Name, Triple: pkggraph.TripleDestination}
			derived := derivePlatforms(t.Platforms, t.Kind, platforms)
			modules[key] = &pkggraph.ModuleInstance{
				Key:               key,
				Package:           m.Identity,
				Kind:              t.Kind,
				DeclaredPlatforms: t.Platforms,
				DerivedPlatforms:  derived,
			}
			targetByKey[key] = t

			if t.Kind == pkggraph.TargetSystem {
				continue
			}
			if probe != nil && !probe.HasSources(m, t) && referencedByProduct[string(m.Identity)+"/"+t.Name] {
				for _, p := range m.Products {
					if containsName(p.Members, t.Name) {
						diags.Errorf(m.Identity, m.Name, "target '%s' referenced in product '%s' is empty", t.Name, p.Name)
					}
				}
			}
		}

		for _, p := range m.Products {
			key := pkggraph.ProductKey{Name: p.Name, Triple: pkggraph.TripleDestination}
			var members []pkggraph.ModuleKey
			for _, name := range p.Members {
				target, ok := m.TargetByName(name)
				if !ok {
					diags.Errorf(m.Identity, m.Name, "product '%s' references unknown target '%s'", p.Name, name)
					continue
				}
				if target.Kind == pkggraph.TargetTest && p.Type != pkggraph.ProductExecutable {
					diags.Errorf(m.Identity, m.Name, "product '%s' cannot include test target '%s'", p.Name, name)
					continue
				}
				members = append(members, pkggraph.ModuleKey{Name: name, Triple: pkggraph.TripleDestination})
			}
			products[key] = &pkggraph.ProductInstance{Key: key, Package: m.Identity, Type: p.Type, Members: members}
		}
	}

	return modules, products, targetByKey
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

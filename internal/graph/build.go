package graph

import (
	"github.com/pkggraph/pkggraph"
	"github.com/pkggraph/pkggraph/internal/traits"
)

// Build composes params into a validated pkggraph.ResolvedGraph, per
// spec.md §4.5/§4.6.
func Build(params Params) (*pkggraph.ResolvedGraph, error) {
	var diags pkggraph.Diagnostics

	probe := params.Probe
	if probe == nil {
		probe = DefaultProbe{}
	}
	platforms := params.Platforms
	if platforms == nil {
		platforms = defaultPlatforms
	}

	evaluator := traits.New(params.Manifests)
	result := evaluator.Evaluate(params.Root, params.TraitOverride)

	modules, products, targetByKey := buildModules(params.Manifests, platforms, probe, &diags)
	for key, mod := range modules {
		m := params.Manifests[mod.Package]
		mod.Defines = traits.Defines(result, mod.Package, m, targetByKey[key])
	}

	resolveEdges(params.Manifests, modules, products, result.Enabled, params.ToolsVersion, &diags)
	detectTargetCycles(modules, products, &diags)
	detectPackageCycles(params.Manifests, params.ToolsVersion, &diags)

	for id, m := range params.Manifests {
		if m.ToolsVersion == "" {
			continue
		}
		declared, err := pkggraph.ParseToolsVersion(m.ToolsVersion)
		if err != nil {
			diags.Errorf(id, m.Name, "invalid tools-version %q", m.ToolsVersion)
			continue
		}
		v := params.Bindings[id]
		if err := pkggraph.CheckSupported(m.Location, v, declared); err != nil {
			diags.Errorf(id, m.Name, "%s", err.Error())
		}
	}

	reachablePkgs := reachablePackages(params.Manifests, params.Root)
	reachable := reachableModules(params.Manifests, modules, products, reachablePkgs, params.Root)

	toolsSet := toolsClosure(reachable, modules, products)
	instantiateTools(toolsSet, modules, products)

	checkNameUniqueness(params.Manifests, reachable, reachablePkgs, &diags)
	if root, ok := params.Manifests[params.Root]; ok {
		checkUnusedDependencies(root, params.Manifests, reachable, &diags)
	}

	out := &pkggraph.ResolvedGraph{
		Packages: make(map[pkggraph.PackageIdentity]pkggraph.PackageBinding, len(reachablePkgs)),
		Modules:  make(map[pkggraph.ModuleKey]*pkggraph.ModuleInstance),
		Products: make(map[pkggraph.ProductKey]*pkggraph.ProductInstance),
	}

	for id := range reachablePkgs {
		binding := pkggraph.PackageBinding{Identity: id, EnabledTraits: result.Enabled[id]}
		if v, ok := params.Bindings[id]; ok {
			binding.Version, binding.HasVersion = v, true
		}
		if r, ok := params.Revisions[id]; ok {
			binding.Revision, binding.HasRevision = r, true
		}
		out.Packages[id] = binding
	}

	for key, mod := range modules {
		if key.Triple == pkggraph.TripleDestination && !reachable[key] {
			continue
		}
		if key.Triple == pkggraph.TripleTools && !toolsSet[key] {
			continue
		}
		out.Modules[key] = mod
	}

	for key, prod := range products {
		if key.Triple != pkggraph.TripleDestination {
			out.Products[key] = prod
			continue
		}
		used := false
		for _, member := range prod.Members {
			if reachable[member] {
				used = true
				break
			}
		}
		if used {
			out.Products[key] = prod
		}
	}

	out.Diagnostics = diags
	return out, nil
}

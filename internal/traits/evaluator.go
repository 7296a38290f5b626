// Package traits computes, for a closure of resolved manifests, the
// per-package enabled-trait set and the synthetic compilation defines that
// follow from it.
package traits

import (
	"sort"

	"github.com/pkggraph/pkggraph"
)

// Evaluator computes enabled-trait sets over a closure of manifests keyed
// by identity.
type Evaluator struct {
	manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest
}

// New returns an Evaluator over manifests. The caller owns the map; the
// evaluator never mutates it.
func New(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest) *Evaluator {
	return &Evaluator{manifests: manifests}
}

// Result is the evaluator's fixed-point output: each package's enabled
// traits.
type Result struct {
	Enabled map[pkggraph.PackageIdentity]map[string]bool
}

// IsEnabled reports whether trait t is enabled on pkg.
func (r Result) IsEnabled(pkg pkggraph.PackageIdentity, t string) bool {
	set, ok := r.Enabled[pkg]
	return ok && set[t]
}

// Evaluate runs the fixed-point computation described in spec.md §4.5: seed
// every package with the traits its own "default" trait lists, without the
// name "default" itself (root overridden by override),
// then repeatedly expand local trait declarations and cross-package
// activations until nothing changes.
func (e *Evaluator) Evaluate(root pkggraph.PackageIdentity, override pkggraph.Override) Result {
	enabled := make(map[pkggraph.PackageIdentity]map[string]bool, len(e.manifests))
	for id, m := range e.manifests {
		set := make(map[string]bool)
		if id == root {
			switch override.Kind {
			case pkggraph.OverrideDisableAll:
			case pkggraph.OverrideExplicit:
				for _, t := range override.Names {
					set[t] = true
				}
			default:
				if def, ok := m.DefaultEnabledTraits(); ok {
					for _, t := range def {
						set[t] = true
					}
				}
			}
		} else if def, ok := m.DefaultEnabledTraits(); ok {
			for _, t := range def {
				set[t] = true
			}
		}
		enabled[id] = set
	}

	// Stable iteration order keeps this deterministic across runs with the
	// same input, per spec.md §5.
	order := make([]pkggraph.PackageIdentity, 0, len(e.manifests))
	for id := range e.manifests {
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for {
		changed := false
		for _, id := range order {
			m := e.manifests[id]
			set := enabled[id]

			for _, name := range traitNamesOf(set) {
				decl, ok := traitDeclByName(m, name)
				if !ok {
					continue
				}
				for _, sub := range decl.EnabledTraits {
					if !set[sub] {
						set[sub] = true
						changed = true
					}
				}
			}

			for _, dep := range m.Dependencies {
				depSet, known := enabled[dep.Ref.Identity]
				if !known {
					continue
				}
				for _, act := range dep.Traits {
					if !conditionMet(act.IfDeclarerOn, set) {
						continue
					}
					if !depSet[act.Trait] {
						depSet[act.Trait] = true
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return Result{Enabled: enabled}
}

func traitNamesOf(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func traitDeclByName(m *pkggraph.Manifest, name string) (pkggraph.TraitDecl, bool) {
	for _, t := range m.Traits {
		if t.Name == name {
			return t, true
		}
	}
	return pkggraph.TraitDecl{}, false
}

func conditionMet(required []string, enabled map[string]bool) bool {
	for _, t := range required {
		if !enabled[t] {
			return false
		}
	}
	return true
}

// Defines returns target's synthetic compilation-condition defines under
// result: conditional target settings in declaration order first, then one
// define per enabled trait in the declaring manifest's trait declaration
// order, per spec.md §4.5.
func Defines(result Result, pkg pkggraph.PackageIdentity, manifest *pkggraph.Manifest, target pkggraph.Target) []string {
	set := result.Enabled[pkg]
	var defines []string
	for _, ts := range target.TraitSettings {
		if set[ts.Trait] {
			defines = append(defines, ts.Define)
		}
	}
	for _, decl := range manifest.Traits {
		if set[decl.Name] {
			defines = append(defines, decl.Name)
		}
	}
	return defines
}

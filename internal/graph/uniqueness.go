package graph

import (
	"sort"

	"github.com/pkggraph/pkggraph"
)

// checkNameUniqueness reports target names declared by more than one
// package among the reachable modules, and product names declared by more
// than one package in reachablePkgs, per spec.md §4.6 "Uniqueness".
func checkNameUniqueness(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, reachable map[pkggraph.ModuleKey]bool, reachablePkgs map[pkggraph.PackageIdentity]bool, diags *pkggraph.Diagnostics) {
	byTarget := map[string]map[pkggraph.PackageIdentity]bool{}
	byProduct := map[string]map[pkggraph.PackageIdentity]bool{}

	for id := range reachablePkgs {
		m, ok := manifests[id]
		if !ok {
			continue
		}
		for _, t := range m.Targets {
			if !reachable[pkggraph.ModuleKey{Name: t.Name, Triple: pkggraph.TripleDestination}] {
				continue
			}
			if byTarget[t.Name] == nil {
				byTarget[t.Name] = map[pkggraph.PackageIdentity]bool{}
			}
			byTarget[t.Name][id] = true
		}
		for _, p := range m.Products {
			if byProduct[p.Name] == nil {
				byProduct[p.Name] = map[pkggraph.PackageIdentity]bool{}
			}
			byProduct[p.Name][id] = true
		}
	}

	reportDupes(byTarget, "target", diags)
	reportDupes(byProduct, "product", diags)
	checkSimilarPackages(manifests, reachablePkgs, diags)
}

func reportDupes(by map[string]map[pkggraph.PackageIdentity]bool, kind string, diags *pkggraph.Diagnostics) {
	names := make([]string, 0, len(by))
	for name := range by {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		owners := by[name]
		if len(owners) < 2 {
			continue
		}
		ids := make([]string, 0, len(owners))
		for id := range owners {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		diags.Errorf("", "", "multiple packages declare a %s named '%s': %v", kind, name, ids)
	}
}

// checkSimilarPackages flags package pairs whose declared target sets
// overlap almost entirely, a signal of a mis-identified duplicate checkout
// (e.g. a registry copy and a source-control checkout of the same
// library).
func checkSimilarPackages(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, reachablePkgs map[pkggraph.PackageIdentity]bool, diags *pkggraph.Diagnostics) {
	const overlapSlack = 2

	ids := make([]string, 0, len(reachablePkgs))
	for id := range reachablePkgs {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	targetSets := make(map[string]map[string]bool, len(ids))
	for _, id := range ids {
		m := manifests[pkggraph.PackageIdentity(id)]
		set := make(map[string]bool, len(m.Targets))
		for _, t := range m.Targets {
			set[t.Name] = true
		}
		targetSets[id] = set
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := targetSets[ids[i]], targetSets[ids[j]]
			if len(a) == 0 || len(b) == 0 {
				continue
			}
			shared := 0
			for name := range a {
				if b[name] {
					shared++
				}
			}
			maxLen := len(a)
			if len(b) > maxLen {
				maxLen = len(b)
			}
			if maxLen-shared <= overlapSlack {
				ma, mb := manifests[pkggraph.PackageIdentity(ids[i])], manifests[pkggraph.PackageIdentity(ids[j])]
				diags.Warnf("", "", "multiple similar targets appear in package %s (%s) and %s (%s)",
					ma.Name, ma.Location, mb.Name, mb.Location)
			}
		}
	}
}

package graph

import (
	"strings"

	"github.com/pkggraph/pkggraph"
)

// detectTargetCycles walks the destination-triple target graph (expanding
// product edges to their member targets) and reports the first cycle found
// as a fatal diagnostic, per spec.md §4.6: target-level cycles are always
// errors.
func detectTargetCycles(modules map[pkggraph.ModuleKey]*pkggraph.ModuleInstance, products map[pkggraph.ProductKey]*pkggraph.ProductInstance, diags *pkggraph.Diagnostics) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[pkggraph.ModuleKey]int, len(modules))
	var stack []pkggraph.ModuleKey

	var visit func(key pkggraph.ModuleKey) bool
	visit = func(key pkggraph.ModuleKey) bool {
		color[key] = gray
		stack = append(stack, key)

		mod, ok := modules[key]
		if !ok {
			color[key] = black
			stack = stack[:len(stack)-1]
			return false
		}
		for _, next := range successors(mod, products) {
			switch color[next] {
			case gray:
				stack = append(stack, next)
				report := formatCycle(stack)
				diags.Errorf(mod.Package, "", "cyclic dependency declaration found: %s", report)
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[key] = black
		stack = stack[:len(stack)-1]
		return false
	}

	for key := range modules {
		if color[key] == white {
			if visit(key) {
				return
			}
		}
	}
}

func successors(mod *pkggraph.ModuleInstance, products map[pkggraph.ProductKey]*pkggraph.ProductInstance) []pkggraph.ModuleKey {
	var out []pkggraph.ModuleKey
	for _, e := range mod.Dependencies {
		if !e.IsProduct {
			out = append(out, e.ToModule)
			continue
		}
		if p, ok := products[e.ToProduct]; ok {
			out = append(out, p.Members...)
		}
	}
	return out
}

func formatCycle(stack []pkggraph.ModuleKey) string {
	names := make([]string, len(stack))
	for i, k := range stack {
		names[i] = k.Name
	}
	return strings.Join(names, " -> ")
}

// detectPackageCycles walks the package-dependency graph; a cycle is an
// error under tools-version < 6.0 and silently permitted at >= 6.0,
// provided no induced target-level cycle exists (checked separately by
// detectTargetCycles, which always runs regardless of tools-version).
func detectPackageCycles(manifests map[pkggraph.PackageIdentity]*pkggraph.Manifest, toolsVersion pkggraph.ToolsVersion, diags *pkggraph.Diagnostics) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[pkggraph.PackageIdentity]int, len(manifests))
	var stack []pkggraph.PackageIdentity

	var visit func(id pkggraph.PackageIdentity) bool
	visit = func(id pkggraph.PackageIdentity) bool {
		color[id] = gray
		stack = append(stack, id)

		m, ok := manifests[id]
		if !ok {
			color[id] = black
			stack = stack[:len(stack)-1]
			return false
		}
		for _, dep := range m.Dependencies {
			next := dep.Ref.Identity
			if _, known := manifests[next]; !known {
				continue
			}
			switch color[next] {
			case gray:
				stack = append(stack, next)
				if !toolsVersion.PermitsPackageCycles() {
					diags.Errorf(id, m.Name,
						"cyclic package dependency found: %s; requires tools-version 6.0 or later",
						formatPackageCycle(stack))
				}
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		stack = stack[:len(stack)-1]
		return false
	}

	for id := range manifests {
		if color[id] == white {
			visit(id)
		}
	}
}

func formatPackageCycle(stack []pkggraph.PackageIdentity) string {
	names := make([]string, len(stack))
	for i, id := range stack {
		names[i] = string(id)
	}
	return strings.Join(names, " -> ")
}

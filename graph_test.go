package pkggraph

import (
	"strings"
	"testing"
)

type alwaysHasSources struct{}

func (alwaysHasSources) HasSources(pkg *Manifest, target Target) bool { return true }

func lib(name string) Target { return Target{Name: name, Kind: TargetLibrary} }

func TestBuildGraphResolvesTargetAndProductEdges(t *testing.T) {
	depID := NewPackageIdentity("dep")
	root := &Manifest{
		Identity: "root",
		Name:     "root",
		Targets: []Target{
			{Name: "App", Kind: TargetExecutable, Dependencies: []TargetDependency{{Name: "Lib"}}},
		},
		Dependencies: []PackageDependency{{Ref: PackageRef{Name: "dep", Identity: depID}}},
	}
	dep := &Manifest{
		Identity: depID,
		Name:     "dep",
		Targets:  []Target{lib("Lib")},
		Products: []Product{{Name: "Lib", Type: ProductLibraryAutomatic, Members: []string{"Lib"}}},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root, depID: dep},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if graph.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", graph.Diagnostics.Records())
	}

	app, ok := graph.Modules[ModuleKey{Name: "App", Triple: TripleDestination}]
	if !ok {
		t.Fatal("expected the App module to be present")
	}
	if len(app.Dependencies) != 1 || !app.Dependencies[0].IsProduct {
		t.Fatalf("expected App to depend on dep's Lib product, got %+v", app.Dependencies)
	}
}

func TestBuildGraphDetectsTargetCycle(t *testing.T) {
	root := &Manifest{
		Identity: "root",
		Name:     "root",
		Targets: []Target{
			{Name: "A", Kind: TargetLibrary, Dependencies: []TargetDependency{{Name: "B"}}},
			{Name: "B", Kind: TargetLibrary, Dependencies: []TargetDependency{{Name: "A"}}},
		},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !graph.Diagnostics.HasErrors() {
		t.Fatal("expected a cyclic-dependency diagnostic")
	}
}

func TestBuildGraphFlagsUnresolvedDependencyWithSuggestion(t *testing.T) {
	root := &Manifest{
		Identity: "root",
		Name:     "root",
		Targets: []Target{
			{Name: "App", Kind: TargetExecutable, Dependencies: []TargetDependency{{Name: "Libb"}}},
			lib("Lib"),
		},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := graph.Diagnostics.Records()
	found := false
	for _, r := range records {
		if r.Severity == SeverityError && strings.Contains(r.Message, "did you mean 'Lib'") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an error diagnostic suggesting 'Lib' for the unresolved dependency, got %v", records)
	}
}

func TestBuildGraphDetectsDuplicateTargetNames(t *testing.T) {
	other := NewPackageIdentity("other")
	root := &Manifest{
		Identity: "root",
		Name:     "root",
		Targets:  []Target{lib("Shared")},
		Dependencies: []PackageDependency{
			{Ref: PackageRef{Name: "other", Identity: other}},
		},
	}
	otherM := &Manifest{
		Identity: other,
		Name:     "other",
		Targets:  []Target{lib("Shared")},
		Products: []Product{{Name: "Shared", Type: ProductLibraryAutomatic, Members: []string{"Shared"}}},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root, other: otherM},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !graph.Diagnostics.HasErrors() {
		t.Fatal("expected a duplicate-target-name diagnostic")
	}
}

func TestBuildGraphPackageCycleGatedByToolsVersion(t *testing.T) {
	bID := NewPackageIdentity("b")
	a := &Manifest{
		Identity:     "a",
		Name:         "a",
		Targets:      []Target{lib("ALib")},
		Products:     []Product{{Name: "ALib", Type: ProductLibraryAutomatic, Members: []string{"ALib"}}},
		Dependencies: []PackageDependency{{Ref: PackageRef{Name: "b", Identity: bID}}},
	}
	b := &Manifest{
		Identity:     bID,
		Name:         "b",
		Targets:      []Target{lib("BLib")},
		Products:     []Product{{Name: "BLib", Type: ProductLibraryAutomatic, Members: []string{"BLib"}}},
		Dependencies: []PackageDependency{{Ref: PackageRef{Name: "a", Identity: "a"}}},
	}

	manifests := map[PackageIdentity]*Manifest{"a": a, bID: b}

	old, err := BuildGraph(BuildGraphParams{
		Manifests: manifests, Root: "a", Probe: alwaysHasSources{},
		ToolsVersion: NewToolsVersion("5.7.0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !old.Diagnostics.HasErrors() {
		t.Fatal("expected a package-cycle diagnostic under tools-version < 6.0")
	}

	newer, err := BuildGraph(BuildGraphParams{
		Manifests: manifests, Root: "a", Probe: alwaysHasSources{},
		ToolsVersion: NewToolsVersion("6.0.0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range newer.Diagnostics.Records() {
		if r.Severity == SeverityError {
			t.Fatalf("did not expect a package-cycle error under tools-version >= 6.0, got %q", r.Message)
		}
	}
}

func TestBuildGraphInstantiatesToolsTripleForMacro(t *testing.T) {
	root := &Manifest{
		Identity: "root",
		Name:     "root",
		Targets: []Target{
			{Name: "Gen", Kind: TargetMacro, Dependencies: []TargetDependency{{Name: "Support"}}},
			lib("Support"),
			{Name: "App", Kind: TargetExecutable, Dependencies: []TargetDependency{{Name: "Gen"}}},
		},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := graph.Modules[ModuleKey{Name: "Gen", Triple: TripleTools}]; !ok {
		t.Fatal("expected a tools-triple instance of the macro target")
	}
	if _, ok := graph.Modules[ModuleKey{Name: "Support", Triple: TripleTools}]; !ok {
		t.Fatal("expected the macro's own dependency to also get a tools-triple instance")
	}
}

func TestBuildGraphDerivesPlatformsForTestTargets(t *testing.T) {
	root := &Manifest{
		Identity: "root",
		Name:     "root",
		Targets: []Target{
			{Name: "AppTests", Kind: TargetTest},
		},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mod, ok := graph.Modules[ModuleKey{Name: "AppTests", Triple: TripleDestination}]
	if !ok {
		t.Fatal("expected the test target to appear in the graph")
	}
	if mod.DerivedPlatforms["ios"] != "12.0" {
		t.Fatalf("expected xctest minimums to derive ios=12.0, got %q", mod.DerivedPlatforms["ios"])
	}
}

func TestBuildGraphUnusedDependencyWarning(t *testing.T) {
	unused := NewPackageIdentity("unused")
	root := &Manifest{
		Identity:     "root",
		Name:         "root",
		Targets:      []Target{lib("App")},
		Dependencies: []PackageDependency{{Ref: PackageRef{Name: "unused", Identity: unused}}},
	}
	unusedM := &Manifest{
		Identity: unused,
		Name:     "unused",
		Targets:  []Target{lib("UnusedLib")},
		Products: []Product{{Name: "UnusedLib", Type: ProductLibraryAutomatic, Members: []string{"UnusedLib"}}},
	}

	graph, err := BuildGraph(BuildGraphParams{
		Manifests: map[PackageIdentity]*Manifest{"root": root, unused: unusedM},
		Root:      "root",
		Probe:     alwaysHasSources{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foundWarning := false
	for _, r := range graph.Diagnostics.Records() {
		if r.Severity == SeverityWarning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatal("expected a warning about the unused dependency")
	}
}

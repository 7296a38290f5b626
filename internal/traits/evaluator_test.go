package traits

import (
	"testing"

	"github.com/pkggraph/pkggraph"
)

func manifest(id pkggraph.PackageIdentity, traits []pkggraph.TraitDecl, deps ...pkggraph.PackageDependency) *pkggraph.Manifest {
	return &pkggraph.Manifest{
		Identity:     id,
		Name:         string(id),
		Traits:       traits,
		Dependencies: deps,
	}
}

func TestEvaluateDefaultTraitSeedsRoot(t *testing.T) {
	root := manifest("root", []pkggraph.TraitDecl{
		{Name: "default", EnabledTraits: []string{"feature"}},
		{Name: "feature"},
	})
	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{"root": root}

	eval := New(manifests)
	result := eval.Evaluate("root", pkggraph.Override{Kind: pkggraph.OverrideUseDefault})

	if result.IsEnabled("root", "default") {
		t.Fatal("did not expect the 'default' name itself to be enabled; only the traits it lists are seeded")
	}
	if !result.IsEnabled("root", "feature") {
		t.Fatal("expected default to transitively enable feature")
	}
}

func TestEvaluateDisableAllIgnoresDefault(t *testing.T) {
	root := manifest("root", []pkggraph.TraitDecl{
		{Name: "default", EnabledTraits: []string{"feature"}},
	})
	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{"root": root}

	eval := New(manifests)
	result := eval.Evaluate("root", pkggraph.Override{Kind: pkggraph.OverrideDisableAll})

	if result.IsEnabled("root", "default") || result.IsEnabled("root", "feature") {
		t.Fatal("expected disable-all to seed an empty trait set regardless of the manifest's default")
	}
}

func TestEvaluateExplicitOverrideSeedsNamedTraits(t *testing.T) {
	root := manifest("root", []pkggraph.TraitDecl{
		{Name: "default", EnabledTraits: []string{"unrelated"}},
		{Name: "wanted"},
	})
	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{"root": root}

	eval := New(manifests)
	result := eval.Evaluate("root", pkggraph.Override{Kind: pkggraph.OverrideExplicit, Names: []string{"wanted"}})

	if !result.IsEnabled("root", "wanted") {
		t.Fatal("expected the explicitly named trait to be enabled")
	}
	if result.IsEnabled("root", "unrelated") {
		t.Fatal("explicit override should ignore the manifest's default trait")
	}
}

func TestEvaluatePropagatesActivationAcrossDependency(t *testing.T) {
	depID := pkggraph.PackageIdentity("dep")
	dep := manifest(depID, []pkggraph.TraitDecl{{Name: "networking"}})
	root := manifest("root", []pkggraph.TraitDecl{
		{Name: "default", EnabledTraits: []string{"useNetwork"}},
		{Name: "useNetwork"},
	}, pkggraph.PackageDependency{
		Ref: pkggraph.PackageRef{Name: "dep", Identity: depID},
		Traits: []pkggraph.TraitActivation{
			{Trait: "networking", IfDeclarerOn: []string{"useNetwork"}},
		},
	})
	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{"root": root, depID: dep}

	eval := New(manifests)
	result := eval.Evaluate("root", pkggraph.Override{Kind: pkggraph.OverrideUseDefault})

	if !result.IsEnabled(depID, "networking") {
		t.Fatal("expected the conditional activation to enable networking on the dependency")
	}
}

func TestEvaluateConditionalActivationNotMetStaysDisabled(t *testing.T) {
	depID := pkggraph.PackageIdentity("dep")
	dep := manifest(depID, []pkggraph.TraitDecl{{Name: "networking"}})
	root := manifest("root", nil, pkggraph.PackageDependency{
		Ref: pkggraph.PackageRef{Name: "dep", Identity: depID},
		Traits: []pkggraph.TraitActivation{
			{Trait: "networking", IfDeclarerOn: []string{"useNetwork"}},
		},
	})
	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{"root": root, depID: dep}

	eval := New(manifests)
	result := eval.Evaluate("root", pkggraph.Override{Kind: pkggraph.OverrideUseDefault})

	if result.IsEnabled(depID, "networking") {
		t.Fatal("did not expect networking to be enabled, the gating trait was never on")
	}
}

func TestDefinesOrdersSettingsThenTraits(t *testing.T) {
	m := manifest("root", []pkggraph.TraitDecl{
		{Name: "default", EnabledTraits: []string{"alpha"}},
		{Name: "alpha"},
	})
	manifests := map[pkggraph.PackageIdentity]*pkggraph.Manifest{"root": m}
	eval := New(manifests)
	result := eval.Evaluate("root", pkggraph.Override{Kind: pkggraph.OverrideUseDefault})

	target := pkggraph.Target{
		TraitSettings: []pkggraph.TraitSetting{
			{Trait: "alpha", Define: "ALPHA_ON"},
		},
	}
	defines := Defines(result, "root", m, target)
	if len(defines) != 2 || defines[0] != "ALPHA_ON" {
		t.Fatalf("expected setting defines before trait-name defines, got %v", defines)
	}
}

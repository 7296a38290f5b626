package pkggraph

import "testing"

type stubRevisionResolver struct {
	resolves bool
}

func (s stubRevisionResolver) RevisionResolvesTo(pkg PackageIdentity, rev Revision, vs VersionSet) bool {
	return s.resolves
}

func TestRequirementIntersectVersionSets(t *testing.T) {
	a := VersionSetRequirement(RangeVersionSet(v("1.0.0"), true, v("2.0.0"), false))
	b := VersionSetRequirement(RangeVersionSet(v("1.5.0"), true, v("3.0.0"), false))
	got := a.Intersect("pkg", b, nil)
	want := RangeVersionSet(v("1.5.0"), true, v("2.0.0"), false)
	if !got.Versions.Equal(want) {
		t.Fatalf("Intersect = %s, want %s", got, want)
	}
}

func TestRequirementUnversionedIntersect(t *testing.T) {
	u := UnversionedRequirement()
	any := VersionSetRequirement(AnyVersionSet())
	if got := u.Intersect("pkg", any, nil); got.Kind != ReqUnversioned {
		t.Fatalf("unversioned ∩ any = %s, want unversioned", got)
	}

	bounded := VersionSetRequirement(RangeVersionSet(v("1.0.0"), true, v("2.0.0"), false))
	if got := u.Intersect("pkg", bounded, nil); !got.IsEmpty() {
		t.Fatalf("unversioned ∩ bounded = %s, want empty", got)
	}
}

func TestRequirementRevisionIntersect(t *testing.T) {
	rev := RevisionRequirement("deadbeef")
	set := VersionSetRequirement(RangeVersionSet(v("1.0.0"), true, v("2.0.0"), false))

	if got := rev.Intersect("pkg", set, nil); !got.IsEmpty() {
		t.Fatalf("revision ∩ versionSet with nil resolver should be empty, got %s", got)
	}

	resolver := stubRevisionResolver{resolves: true}
	got := rev.Intersect("pkg", set, resolver)
	if got.Kind != ReqRevision || got.Rev != "deadbeef" {
		t.Fatalf("revision ∩ versionSet with a resolving hook should keep the revision, got %s", got)
	}

	otherRev := RevisionRequirement("cafef00d")
	if got := rev.Intersect("pkg", otherRev, nil); !got.IsEmpty() {
		t.Fatalf("two distinct revisions should intersect to empty, got %s", got)
	}
}

func TestRequirementIsEmpty(t *testing.T) {
	if VersionSetRequirement(EmptyVersionSet()).IsEmpty() != true {
		t.Fatal("an empty version set requirement should be empty")
	}
	if UnversionedRequirement().IsEmpty() {
		t.Fatal("unversioned should never be empty")
	}
	if RevisionRequirement("x").IsEmpty() {
		t.Fatal("a revision requirement should never be empty")
	}
}

func TestRequirementContains(t *testing.T) {
	req := VersionSetRequirement(RangeVersionSet(v("1.0.0"), true, v("2.0.0"), false))
	if !req.Contains(v("1.5.0")) {
		t.Fatal("expected 1.5.0 to be contained")
	}
	if req.Contains(v("2.0.0")) {
		t.Fatal("did not expect 2.0.0 to be contained (exclusive upper bound)")
	}
	if !UnversionedRequirement().Contains(v("9.9.9")) {
		t.Fatal("unversioned should contain anything")
	}
}

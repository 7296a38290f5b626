package resolve

import (
	"testing"

	"github.com/pkggraph/pkggraph"
)

func TestStoreInsertDeduplicatesBySignature(t *testing.T) {
	store := NewStore()
	term := pkggraph.NewTerm("a", atLeastReq("1.0.0"))

	id1 := store.Insert(Incompatibility{Terms: []pkggraph.Term{term}}, nil)
	id2 := store.Insert(Incompatibility{Terms: []pkggraph.Term{term}}, nil)
	if id1 != id2 {
		t.Fatalf("expected re-inserting an identical incompatibility to return the same ID, got %d and %d", id1, id2)
	}

	other := pkggraph.NewTerm("b", atLeastReq("1.0.0"))
	id3 := store.Insert(Incompatibility{Terms: []pkggraph.Term{other}}, nil)
	if id3 == id1 {
		t.Fatal("expected a distinct incompatibility to get a distinct ID")
	}
}

func TestStoreInsertNormalizesDuplicatePackageTerms(t *testing.T) {
	store := NewStore()
	wide := pkggraph.NewTerm("a", atLeastReq("1.0.0"))
	narrow := pkggraph.NewTerm("a", exactReq("5.0.0"))

	id := store.Insert(Incompatibility{Terms: []pkggraph.Term{wide, narrow}}, nil)
	got := store.Get(id)
	if len(got.Terms) != 1 {
		t.Fatalf("expected normalize to merge same-package terms into one, got %d terms", len(got.Terms))
	}
}

func TestStoreForPackageIndexesEveryTerm(t *testing.T) {
	store := NewStore()
	a := pkggraph.NewTerm("a", atLeastReq("1.0.0"))
	b := pkggraph.NewTerm("b", atLeastReq("1.0.0"))
	id := store.Insert(Incompatibility{Terms: []pkggraph.Term{a, b}}, nil)

	for _, pkg := range []pkggraph.PackageIdentity{"a", "b"} {
		ids := store.ForPackage(pkg)
		if len(ids) != 1 || ids[0] != id {
			t.Fatalf("expected ForPackage(%s) = [%d], got %v", pkg, id, ids)
		}
	}
}

func TestNewFromDependencyShape(t *testing.T) {
	dep := pkggraph.NewTerm("b", atLeastReq("1.0.0"))
	incomp := NewFromDependency("a", ver("1.0.0"), dep)
	if incomp.Cause != pkggraph.CauseDependency {
		t.Fatalf("expected CauseDependency, got %s", incomp.Cause)
	}
	if len(incomp.Terms) != 2 {
		t.Fatalf("expected two terms (the depender pinned, the dependency negated), got %d", len(incomp.Terms))
	}
	if incomp.Terms[1].Positive {
		t.Fatal("expected the dependency term to be negated")
	}
}

func TestToErrorTreeWalksConflictChildren(t *testing.T) {
	store := NewStore()
	leafA := store.Insert(Incompatibility{
		Terms: []pkggraph.Term{pkggraph.NewTerm("a", atLeastReq("1.0.0"))},
		Cause: pkggraph.CauseNoAvailableVersion,
	}, nil)
	leafB := store.Insert(Incompatibility{
		Terms: []pkggraph.Term{pkggraph.NewTerm("b", atLeastReq("1.0.0"))},
		Cause: pkggraph.CauseNoAvailableVersion,
	}, nil)
	conflict := store.Insert(Incompatibility{
		Cause:  pkggraph.CauseConflict,
		Cause1: leafA,
		Cause2: leafB,
	}, nil)

	tree := store.ToErrorTree(conflict)
	if tree.Cause != pkggraph.CauseConflict {
		t.Fatalf("expected root cause to be CauseConflict, got %s", tree.Cause)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	if len(tree.RootCauses()) != 2 {
		t.Fatalf("expected 2 root causes, got %d", len(tree.RootCauses()))
	}
}

package model

import (
	"testing"
)

func TestVersion_String(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{Version{1, 0, 0}, "1.0.0"},
		{Version{0, 0, 1}, "0.0.1"},
		{Version{2, 13, 40}, "2.13.40"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.version.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInventory_FirstSeenWins(t *testing.T) {
	inv := NewInventory()

	first := PackRecord{
		Identity: PackIdentity{ID: "u1", Version: Version{1, 0, 0}},
		Role:     RoleBehavior,
		Archive:  "first.mcaddon",
	}
	second := PackRecord{
		Identity: PackIdentity{ID: "u1", Version: Version{2, 0, 0}},
		Role:     RoleResource,
		Archive:  "second.mcpack",
	}

	if !inv.Add(first) {
		t.Fatal("Add(first) = false, want true")
	}
	if inv.Add(second) {
		t.Error("Add(second) = true, want false for duplicate id")
	}

	rec, ok := inv.Lookup("u1")
	if !ok {
		t.Fatal("Lookup(u1) not found")
	}
	if rec.Archive != "first.mcaddon" {
		t.Errorf("kept record from %q, want first.mcaddon", rec.Archive)
	}
	if rec.Identity.Version != (Version{1, 0, 0}) {
		t.Errorf("kept version %v, want 1.0.0", rec.Identity.Version)
	}
	if inv.Len() != 1 {
		t.Errorf("Len() = %d, want 1", inv.Len())
	}
}

func TestInventory_ByRoleSorted(t *testing.T) {
	inv := NewInventory()
	inv.Add(PackRecord{Identity: PackIdentity{ID: "zz"}, Role: RoleResource})
	inv.Add(PackRecord{Identity: PackIdentity{ID: "aa"}, Role: RoleResource})
	inv.Add(PackRecord{Identity: PackIdentity{ID: "mm"}, Role: RoleBehavior})

	resources := inv.ByRole(RoleResource)
	if len(resources) != 2 {
		t.Fatalf("got %d resource packs, want 2", len(resources))
	}
	if resources[0].Identity.ID != "aa" || resources[1].Identity.ID != "zz" {
		t.Errorf("resource packs not sorted by id: %q, %q",
			resources[0].Identity.ID, resources[1].Identity.ID)
	}

	behaviors := inv.ByRole(RoleBehavior)
	if len(behaviors) != 1 || behaviors[0].Identity.ID != "mm" {
		t.Errorf("unexpected behavior packs: %v", behaviors)
	}
}

func TestReconcile(t *testing.T) {
	inv := NewInventory()
	inv.Add(PackRecord{
		Identity: PackIdentity{ID: "u1", Version: Version{1, 0, 0}},
		Role:     RoleBehavior,
		Archive:  "a.mcaddon",
	})
	inv.Add(PackRecord{
		Identity: PackIdentity{ID: "u2", Version: Version{1, 0, 0}},
		Role:     RoleResource,
		Archive:  "b.mcpack",
	})

	reqs := []WorldRequirement{
		{ID: "u1", Version: Version{1, 0, 0}, Role: RoleBehavior},
		{ID: "u3", Version: Version{0, 0, 1}, Role: RoleResource},
	}

	result := Reconcile(reqs, inv)

	if len(result.Matched) != 1 || result.Matched[0].Requirement.ID != "u1" {
		t.Errorf("Matched = %v, want exactly u1", result.Matched)
	}
	if result.Matched[0].Record.Archive != "a.mcaddon" {
		t.Errorf("matched record archive = %q, want a.mcaddon", result.Matched[0].Record.Archive)
	}
	if len(result.Missing) != 1 || result.Missing[0].ID != "u3" {
		t.Errorf("Missing = %v, want exactly u3", result.Missing)
	}
	if result.FullyMatched() {
		t.Error("FullyMatched() = true with a missing pack")
	}
}

func TestReconcile_OrderIndependent(t *testing.T) {
	inv := NewInventory()
	inv.Add(PackRecord{Identity: PackIdentity{ID: "b"}})
	inv.Add(PackRecord{Identity: PackIdentity{ID: "a"}})

	forward := []WorldRequirement{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	reverse := []WorldRequirement{{ID: "d"}, {ID: "c"}, {ID: "b"}, {ID: "a"}}

	r1 := Reconcile(forward, inv)
	r2 := Reconcile(reverse, inv)

	if len(r1.Matched) != len(r2.Matched) || len(r1.Missing) != len(r2.Missing) {
		t.Fatalf("result sizes differ: %v vs %v", r1, r2)
	}
	for i := range r1.Matched {
		if r1.Matched[i].Requirement.ID != r2.Matched[i].Requirement.ID {
			t.Errorf("matched order differs at %d: %q vs %q",
				i, r1.Matched[i].Requirement.ID, r2.Matched[i].Requirement.ID)
		}
	}
	for i := range r1.Missing {
		if r1.Missing[i].ID != r2.Missing[i].ID {
			t.Errorf("missing order differs at %d: %q vs %q",
				i, r1.Missing[i].ID, r2.Missing[i].ID)
		}
	}
}

func TestReconcile_NoRequirements(t *testing.T) {
	inv := NewInventory()
	inv.Add(PackRecord{Identity: PackIdentity{ID: "u1"}})

	result := Reconcile(nil, inv)
	if !result.FullyMatched() {
		t.Error("no requirements should be vacuously fully matched")
	}
	if len(result.Matched) != 0 {
		t.Errorf("Matched = %v, want empty", result.Matched)
	}
}

func TestReconcile_RoleMismatchIgnored(t *testing.T) {
	// A pack declared as resource in the world but classified as behavior
	// locally still matches: only the id matters.
	inv := NewInventory()
	inv.Add(PackRecord{Identity: PackIdentity{ID: "u1"}, Role: RoleBehavior})

	result := Reconcile([]WorldRequirement{{ID: "u1", Role: RoleResource}}, inv)
	if !result.FullyMatched() {
		t.Error("role mismatch must not prevent a match")
	}
}

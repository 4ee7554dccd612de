package model

import (
	"fmt"
	"sort"
)

// Role classifies a pack as server-side logic or client-facing assets.
type Role string

const (
	// RoleBehavior marks packs carrying code or data modules. The server
	// only loads scripts from the behavior pack location, so anything
	// code-bearing must be filed here.
	RoleBehavior Role = "behavior"

	// RoleResource marks packs carrying client assets. Also the fallback
	// when a manifest declares no recognizable module type.
	RoleResource Role = "resource"
)

// Version is a three-part pack version. Marshals to the [major, minor,
// patch] JSON array the game engine uses in manifests and pack lists.
type Version [3]int

// String formats the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// PackIdentity identifies a pack. Equality is by ID alone; Version is
// compatibility metadata, not part of the identity.
type PackIdentity struct {
	// ID is the pack uuid from the manifest header. Treated as an opaque
	// unique token.
	ID string

	// Version is the declared pack version.
	Version Version
}

// PackRecord describes one pack discovered during an inventory scan.
type PackRecord struct {
	// Identity is the pack id and version from its manifest.
	Identity PackIdentity

	// Role is the behavior/resource classification of the pack.
	Role Role

	// Archive is the name of the source archive the pack came from.
	Archive string

	// Name is the display name from the manifest header, if present.
	Name string

	// Dir is the extracted pack directory (the parent of its manifest),
	// valid only while the scan's scratch space exists.
	Dir string
}

// Inventory maps pack id to PackRecord. Built fresh per run, never
// persisted. The zero value is not usable; use NewInventory.
type Inventory struct {
	records map[string]PackRecord
	order   []string
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{records: make(map[string]PackRecord)}
}

// Add inserts a record under first-seen-wins policy. Returns false if the
// id is already present, in which case the existing record is kept
// untouched.
func (inv *Inventory) Add(rec PackRecord) bool {
	if _, ok := inv.records[rec.Identity.ID]; ok {
		return false
	}
	inv.records[rec.Identity.ID] = rec
	inv.order = append(inv.order, rec.Identity.ID)
	return true
}

// Lookup returns the record for an id.
func (inv *Inventory) Lookup(id string) (PackRecord, bool) {
	rec, ok := inv.records[id]
	return rec, ok
}

// Len returns the number of distinct packs.
func (inv *Inventory) Len() int {
	return len(inv.records)
}

// Records returns all records in insertion order.
func (inv *Inventory) Records() []PackRecord {
	out := make([]PackRecord, 0, len(inv.order))
	for _, id := range inv.order {
		out = append(out, inv.records[id])
	}
	return out
}

// ByRole returns the records with the given role, sorted by id so output
// documents are stable regardless of scan order.
func (inv *Inventory) ByRole(role Role) []PackRecord {
	var out []PackRecord
	for _, rec := range inv.records {
		if rec.Role == role {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity.ID < out[j].Identity.ID
	})
	return out
}

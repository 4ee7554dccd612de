package model

import "sort"

// WorldRequirement is one entry of a world's declared pack list. Role is
// taken from which list the entry came from (behavior or resource),
// independent of how the matching pack classifies itself.
type WorldRequirement struct {
	ID      string
	Version Version
	Role    Role
}

// Match pairs a satisfied requirement with the inventory record that
// satisfies it.
type Match struct {
	Requirement WorldRequirement
	Record      PackRecord
}

// ReconciliationResult reports which of a world's requirements are
// satisfied by the local inventory. Matching is a presence check by id;
// version differences are informational only.
type ReconciliationResult struct {
	Matched []Match
	Missing []WorldRequirement
}

// FullyMatched reports whether no requirements are missing. A world that
// declares no requirements at all is vacuously fully matched.
func (r ReconciliationResult) FullyMatched() bool {
	return len(r.Missing) == 0
}

// Reconcile cross-references requirements against the inventory. The
// result is independent of requirement order and inventory scan order:
// both output slices are sorted by id. Duplicate requirement ids are
// collapsed to a single entry.
func Reconcile(reqs []WorldRequirement, inv *Inventory) ReconciliationResult {
	var result ReconciliationResult
	seen := make(map[string]bool)

	for _, req := range reqs {
		if req.ID == "" || seen[req.ID] {
			continue
		}
		seen[req.ID] = true

		if rec, ok := inv.Lookup(req.ID); ok {
			result.Matched = append(result.Matched, Match{Requirement: req, Record: rec})
		} else {
			result.Missing = append(result.Missing, req)
		}
	}

	sort.Slice(result.Matched, func(i, j int) bool {
		return result.Matched[i].Requirement.ID < result.Matched[j].Requirement.ID
	})
	sort.Slice(result.Missing, func(i, j int) bool {
		return result.Missing[i].ID < result.Missing[j].ID
	})

	return result
}

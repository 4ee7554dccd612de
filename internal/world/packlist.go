package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"worldkeeper/internal/model"
)

// File names of the pack requirement lists at a world's root. The game
// engine consumes these exact names.
const (
	BehaviorPacksFile = "world_behavior_packs.json"
	ResourcePacksFile = "world_resource_packs.json"
)

// packEntry is one element of a pack requirement list. Field names are
// part of the engine's contract and must not change.
type packEntry struct {
	PackID  string        `json:"pack_id"`
	Version model.Version `json:"version"`
}

// ReadRequirements loads the behavior and resource pack lists from a
// world directory. A missing list file contributes nothing; that is the
// common case for vanilla worlds. A present but unreadable or malformed
// list is skipped and reported through the returned error while the
// other list's entries are still returned, so callers can warn and
// continue.
func ReadRequirements(worldDir string) ([]model.WorldRequirement, error) {
	var reqs []model.WorldRequirement
	var problems []error

	for _, source := range []struct {
		file string
		role model.Role
	}{
		{BehaviorPacksFile, model.RoleBehavior},
		{ResourcePacksFile, model.RoleResource},
	} {
		entries, err := readPackList(filepath.Join(worldDir, source.file))
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", source.file, err))
			continue
		}
		for _, entry := range entries {
			if entry.PackID == "" {
				continue
			}
			reqs = append(reqs, model.WorldRequirement{
				ID:      entry.PackID,
				Version: entry.Version,
				Role:    source.role,
			})
		}
	}

	return reqs, errors.Join(problems...)
}

// readPackList decodes one requirement list file. Absent files yield an
// empty list.
func readPackList(path string) ([]packEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []packEntry
	if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
		return nil, fmt.Errorf("malformed pack list: %w", err)
	}
	return entries, nil
}

// WritePackLists writes both requirement lists into worldDir from the
// inventory. Every available pack is declared, not just the ones the
// imported world originally asked for — the server should load whatever
// the operator has installed. Entries are sorted by id so repeated runs
// produce identical files.
func WritePackLists(worldDir string, inv *model.Inventory) error {
	for _, target := range []struct {
		file string
		role model.Role
	}{
		{BehaviorPacksFile, model.RoleBehavior},
		{ResourcePacksFile, model.RoleResource},
	} {
		entries := make([]packEntry, 0)
		for _, rec := range inv.ByRole(target.role) {
			entries = append(entries, packEntry{
				PackID:  rec.Identity.ID,
				Version: rec.Identity.Version,
			})
		}

		data, err := json.MarshalIndent(entries, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", target.file, err)
		}
		path := filepath.Join(worldDir, target.file)
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target.file, err)
		}
	}
	return nil
}

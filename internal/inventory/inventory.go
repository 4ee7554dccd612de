package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"worldkeeper/internal/archive"
	"worldkeeper/internal/manifest"
	"worldkeeper/internal/model"
)

// Extensions recognized as pack archives in the mods directory.
var packExtensions = map[string]bool{
	".mcaddon": true,
	".mcpack":  true,
}

// Skipped records one archive or manifest that did not contribute to the
// inventory, and why. Skips are expected (duplicate ids, stray metadata
// files, corrupt downloads) and reported rather than raised.
type Skipped struct {
	// Archive is the name of the archive the skip happened in.
	Archive string

	// Path is the offending manifest path, empty when the whole archive
	// was skipped.
	Path string

	// Reason is a short human-readable cause.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Result is the outcome of a mods directory scan. It owns the scratch
// directory holding the extracted packs, which the PackRecord.Dir fields
// point into; Close releases it.
type Result struct {
	Inventory *model.Inventory
	Skipped   []Skipped

	scratch string
}

// Close removes the scan's scratch directory. Safe to call multiple
// times.
func (r *Result) Close() error {
	if r.scratch == "" {
		return nil
	}
	err := os.RemoveAll(r.scratch)
	r.scratch = ""
	return err
}

// Scan builds a pack inventory from every .mcaddon/.mcpack archive
// directly inside modsDir. Archives are processed in filename order,
// which fixes precedence when two archives declare the same pack id: the
// first one scanned wins and later duplicates become Skipped entries.
//
// A missing mods directory yields an empty inventory, not an error — a
// server with no mods is a valid configuration.
func Scan(ctx context.Context, modsDir string) (*Result, error) {
	result := &Result{Inventory: model.NewInventory()}

	archives, err := listPackArchives(modsDir)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return result, nil
	}

	scratch, err := os.MkdirTemp("", "worldkeeper-scan-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	result.scratch = scratch

	for _, name := range archives {
		if err := ctx.Err(); err != nil {
			result.Close()
			return nil, err
		}
		result.scanArchive(ctx, filepath.Join(modsDir, name), name)
	}

	return result, nil
}

// listPackArchives returns the pack archive filenames directly inside
// modsDir (non-recursive), sorted by name for deterministic scan order.
func listPackArchives(modsDir string) ([]string, error) {
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list mods directory %s: %w", modsDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if packExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// scanArchive unpacks one archive into its scratch subdirectory and
// records every pack manifest found beneath it.
func (r *Result) scanArchive(ctx context.Context, path, name string) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	dest := filepath.Join(r.scratch, stem)

	if err := archive.Unpack(ctx, path, dest); err != nil {
		r.Skipped = append(r.Skipped, Skipped{
			Archive: name,
			Reason:  "failed to unpack",
			Err:     err,
		})
		return
	}

	manifests, err := archive.FindManifests(dest)
	if err != nil {
		r.Skipped = append(r.Skipped, Skipped{
			Archive: name,
			Reason:  "failed to search for manifests",
			Err:     err,
		})
		return
	}

	for _, manifestPath := range manifests {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			r.Skipped = append(r.Skipped, Skipped{
				Archive: name,
				Path:    manifestPath,
				Reason:  "unreadable manifest",
				Err:     err,
			})
			continue
		}

		m, err := manifest.Parse(data)
		if err != nil {
			r.Skipped = append(r.Skipped, Skipped{
				Archive: name,
				Path:    manifestPath,
				Reason:  "malformed manifest",
				Err:     err,
			})
			continue
		}
		if m.Header.UUID == "" {
			// Not a pack manifest; archives may carry stray metadata
			// files under the same name.
			continue
		}

		rec := model.PackRecord{
			Identity: m.Identity(),
			Role:     manifest.Classify(m.ModuleTypes()),
			Archive:  name,
			Name:     m.Header.Name,
			Dir:      filepath.Dir(manifestPath),
		}
		if !r.Inventory.Add(rec) {
			r.Skipped = append(r.Skipped, Skipped{
				Archive: name,
				Path:    manifestPath,
				Reason:  fmt.Sprintf("duplicate pack id %s", m.Header.UUID),
			})
		}
	}
}

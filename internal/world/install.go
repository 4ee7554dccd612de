package world

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ioutils "worldkeeper/internal/io"
	"worldkeeper/internal/model"
)

// Directory names inside the pack destinations that belong to the server
// distribution itself and must survive a redeploy.
var protectedPackDirs = map[string]bool{
	"chemistry":    true,
	"definitions":  true,
	"experimental": true,
}

// isProtectedPackDir reports whether an installed-pack subdirectory is
// part of the server distribution rather than an operator-deployed pack.
func isProtectedPackDir(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "vanilla") || protectedPackDirs[lower]
}

// InstallPacks deploys every inventory pack into the behavior or
// resource destination directory according to its role, one
// subdirectory per pack keyed by its id. Previously deployed packs are
// cleared first; vanilla and other server-internal directories are left
// alone. Record Dir fields must still point at extracted pack content
// (the inventory scan's scratch space must be alive).
func InstallPacks(ctx context.Context, inv *model.Inventory, behaviorDir, resourceDir string) (int, error) {
	for _, dir := range []string{behaviorDir, resourceDir} {
		if err := clearDeployedPacks(dir); err != nil {
			return 0, err
		}
		if err := ioutils.EnsureDir(dir); err != nil {
			return 0, fmt.Errorf("failed to create pack directory %s: %w", dir, err)
		}
	}

	installed := 0
	for _, rec := range inv.Records() {
		if err := ctx.Err(); err != nil {
			return installed, err
		}

		destRoot := resourceDir
		if rec.Role == model.RoleBehavior {
			destRoot = behaviorDir
		}
		dest := filepath.Join(destRoot, rec.Identity.ID)

		if err := os.RemoveAll(dest); err != nil {
			return installed, fmt.Errorf("failed to clear %s: %w", dest, err)
		}
		if err := ioutils.CopyTree(ctx, rec.Dir, dest); err != nil {
			return installed, fmt.Errorf("failed to install pack %s: %w", rec.Identity.ID, err)
		}
		installed++
	}
	return installed, nil
}

// clearDeployedPacks removes operator-deployed pack subdirectories from
// a destination, keeping the server's own content.
func clearDeployedPacks(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list pack directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || isProtectedPackDir(entry.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove deployed pack %s: %w", entry.Name(), err)
		}
	}
	return nil
}

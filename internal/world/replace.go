package world

import (
	"context"
	"fmt"
	"os"

	"worldkeeper/internal/archive"
	ioutils "worldkeeper/internal/io"
)

// BackupSuffix is appended to the active world directory name to form
// the single-slot backup location.
const BackupSuffix = ".backup"

// State tracks a Replacer through its lifecycle.
type State int

const (
	// StateIdle: no new world content staged.
	StateIdle State = iota

	// StateStaged: a fully unpacked world tree exists at the staging
	// location; the active world is untouched.
	StateStaged

	// StateCommitted: the swap finished (or was skipped). Terminal.
	StateCommitted

	// StateFailed: staging or commit failed. Terminal.
	StateFailed
)

// String returns the state name for diagnostics.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaged:
		return "staged"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Replacer swaps the active world directory with a newly staged one
// while keeping a single-generation backup of the previous world.
//
// The crash-safety invariant: at no point during Commit may the active
// location and the backup slot both be absent. An interrupted run leaves
// either the old world in place, or the old world in the backup slot
// (recoverable by hand or by the next run).
type Replacer struct {
	active  string
	backup  string
	staging string
	state   State
}

// NewReplacer returns a Replacer for the given active world directory.
// stagingDir is a scratch location the new world tree is unpacked into;
// it must be on a path the caller will clean up. The backup slot is the
// active directory name plus ".backup", as a sibling.
func NewReplacer(activeDir, stagingDir string) *Replacer {
	return &Replacer{
		active:  activeDir,
		backup:  activeDir + BackupSuffix,
		staging: stagingDir,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (r *Replacer) State() State {
	return r.state
}

// BackupPath returns the single-slot backup location.
func (r *Replacer) BackupPath() string {
	return r.backup
}

// Stage unpacks the world archive into the staging location. The archive
// is mandatory here: an ArchiveError aborts rather than skips. Any
// previous staging content is discarded first.
func (r *Replacer) Stage(ctx context.Context, worldArchive string) error {
	if r.state != StateIdle {
		return fmt.Errorf("cannot stage from state %s", r.state)
	}

	if err := os.RemoveAll(r.staging); err != nil {
		r.state = StateFailed
		return fmt.Errorf("failed to clear staging location: %w", err)
	}
	if err := archive.Unpack(ctx, worldArchive, r.staging); err != nil {
		r.state = StateFailed
		return err
	}

	r.state = StateStaged
	return nil
}

// Commit moves the active world into the backup slot and the staged
// world into the active location. Requires Staged.
func (r *Replacer) Commit(ctx context.Context) error {
	if r.state != StateStaged {
		return fmt.Errorf("cannot commit from state %s", r.state)
	}

	if err := r.backupActive(ctx); err != nil {
		r.state = StateFailed
		return err
	}
	if err := r.promoteStaged(ctx); err != nil {
		r.state = StateFailed
		return err
	}

	r.state = StateCommitted
	return nil
}

// Skip commits without touching disk: the caller chose to keep whatever
// world is currently active. Valid only before staging.
func (r *Replacer) Skip() error {
	if r.state != StateIdle {
		return fmt.Errorf("cannot skip from state %s", r.state)
	}
	r.state = StateCommitted
	return nil
}

// backupActive moves the current active world into the backup slot,
// discarding the previous backup generation first. A missing active
// world is fine — first deployment on a fresh server.
func (r *Replacer) backupActive(ctx context.Context) error {
	if _, err := os.Stat(r.active); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(r.backup); err != nil {
		return fmt.Errorf("failed to remove previous backup: %w", err)
	}
	if err := moveDir(ctx, r.active, r.backup); err != nil {
		return fmt.Errorf("failed to back up active world: %w", err)
	}
	return nil
}

// promoteStaged moves the staged tree into the active location.
func (r *Replacer) promoteStaged(ctx context.Context) error {
	if err := moveDir(ctx, r.staging, r.active); err != nil {
		return fmt.Errorf("failed to move staged world into place: %w", err)
	}
	return nil
}

// moveDir renames src to dst, falling back to copy-then-delete when the
// rename crosses filesystems. The source is deleted only after the copy
// is verified present at dst, preserving the either-active-or-backup
// invariant.
func moveDir(ctx context.Context, src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := ioutils.CopyTree(ctx, src, dst); err != nil {
		return fmt.Errorf("copy fallback failed: %w", err)
	}
	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("copy fallback did not produce %s: %w", dst, err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return nil
}

package deploy

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"worldkeeper/internal/archive"
	"worldkeeper/internal/backup"
	"worldkeeper/internal/config"
	"worldkeeper/internal/inventory"
	"worldkeeper/internal/model"
	"worldkeeper/internal/world"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a setup progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates world import and pack deployment.
type Manager struct {
	settings *config.Settings

	scan   *inventory.Result
	worlds []backup.Info

	stepsDone  int32
	stepsTotal int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new deploy Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		onProgress: onProgress,
	}
}

// Close releases the inventory scan's scratch space. Safe to call even
// if Initialize failed or never ran.
func (m *Manager) Close() error {
	if m.scan == nil {
		return nil
	}
	return m.scan.Close()
}

// Initialize scans the mods directory and lists the available world
// backups.
func (m *Manager) Initialize(ctx context.Context) error {
	m.progress(ProgressEvent{Message: "Scanning mods directory...", Level: LevelInfo})

	scan, err := inventory.Scan(ctx, m.settings.ModsPath)
	if err != nil {
		return fmt.Errorf("failed to scan mods: %w", err)
	}
	m.scan = scan

	for _, skip := range scan.Skipped {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipped in %s: %s", skip.Archive, skip.Reason),
			Level:   LevelWarning,
		})
	}
	for _, rec := range scan.Inventory.Records() {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Found %s pack: %s %s (%s)", rec.Role, rec.Identity.ID, rec.Identity.Version, rec.Archive),
			Level:   LevelVerbose,
		})
	}

	if scan.Inventory.Len() == 0 {
		m.progress(ProgressEvent{Message: "No mods found", Level: LevelWarning})
	} else {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Found %d mod pack(s)", scan.Inventory.Len()),
			Level:   LevelInfo,
		})
	}

	m.worlds, err = backup.List(m.settings.BackupsPath)
	if err != nil {
		return fmt.Errorf("failed to list world backups: %w", err)
	}
	return nil
}

// Inventory returns the scanned pack inventory. Valid after Initialize.
func (m *Manager) Inventory() *model.Inventory {
	if m.scan == nil {
		return model.NewInventory()
	}
	return m.scan.Inventory
}

// Worlds returns the available world backups, newest first.
func (m *Manager) Worlds() []backup.Info {
	return m.worlds
}

// WorldOptions formats the available backups for a selection prompt.
func (m *Manager) WorldOptions() []string {
	options := make([]string, len(m.worlds))
	for i, info := range m.worlds {
		options[i] = fmt.Sprintf("%-50s %8.2f MB", info.Name, float64(info.Size)/1024/1024)
	}
	return options
}

// HasActiveWorld reports whether a world already exists at the active
// location.
func (m *Manager) HasActiveWorld() bool {
	_, err := os.Stat(m.settings.ActiveWorldDir())
	return err == nil
}

// Validate extracts a world archive to a scratch location, reads its
// declared pack lists, and reconciles them against the inventory.
// Missing packs are reported in the result, not as an error — deciding
// whether to continue is the operator's call.
func (m *Manager) Validate(ctx context.Context, worldArchive string) (model.ReconciliationResult, error) {
	m.progress(ProgressEvent{Message: "Validating required mods for world...", Level: LevelInfo})

	checkDir, err := os.MkdirTemp("", "worldkeeper-check-")
	if err != nil {
		return model.ReconciliationResult{}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(checkDir)

	if err := archive.Unpack(ctx, worldArchive, checkDir); err != nil {
		return model.ReconciliationResult{}, err
	}

	reqs, err := world.ReadRequirements(checkDir)
	if err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Warning: could not read all pack lists: %v", err),
			Level:   LevelWarning,
		})
	}

	result := model.Reconcile(reqs, m.Inventory())

	for _, match := range result.Matched {
		name := match.Record.Name
		if name == "" {
			name = match.Record.Identity.ID
		}
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("✓ %s (%s)", name, match.Record.Archive),
			Level:   LevelVerbose,
		})
	}
	for _, missing := range result.Missing {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("✗ Missing [%s] %s %s", missing.Role, missing.ID, missing.Version),
			Level:   LevelWarning,
		})
	}

	if len(reqs) == 0 {
		m.progress(ProgressEvent{Message: "No mods required by world", Level: LevelInfo})
	} else {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Found packs: %d/%d", len(result.Matched), len(result.Matched)+len(result.Missing)),
			Level:   LevelInfo,
		})
	}
	return result, nil
}

// Deploy performs the world swap and pack installation. With skipWorld
// true the current world stays in place and only the pack lists and
// pack directories are refreshed; worldArchive is ignored. Otherwise
// worldArchive is staged and committed, replacing the active world and
// keeping it in the single backup slot.
func (m *Manager) Deploy(ctx context.Context, worldArchive string, skipWorld bool) error {
	atomic.StoreInt32(&m.stepsDone, 0)
	atomic.StoreInt32(&m.stepsTotal, 4)

	replacer := world.NewReplacer(m.settings.ActiveWorldDir(), m.settings.StagingPath)

	if skipWorld {
		m.progress(ProgressEvent{Message: "Using existing world", Level: LevelInfo})
		if !m.HasActiveWorld() {
			return fmt.Errorf("no world selected and no existing world at %s", m.settings.ActiveWorldDir())
		}
		if err := replacer.Skip(); err != nil {
			return err
		}
		m.step() // stage skipped
		m.step() // commit skipped
	} else {
		m.progress(ProgressEvent{Message: "Extracting world...", Level: LevelInfo})
		if err := replacer.Stage(ctx, worldArchive); err != nil {
			return fmt.Errorf("failed to extract world: %w", err)
		}
		m.step()

		m.progress(ProgressEvent{Message: "Replacing world...", Level: LevelInfo})
		if err := replacer.Commit(ctx); err != nil {
			return fmt.Errorf("failed to replace world: %w", err)
		}
		m.step()
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Previous world kept at %s", replacer.BackupPath()),
			Level:   LevelVerbose,
		})
	}

	m.progress(ProgressEvent{Message: "Writing pack lists...", Level: LevelInfo})
	if err := world.WritePackLists(m.settings.ActiveWorldDir(), m.Inventory()); err != nil {
		return err
	}
	m.step()

	m.progress(ProgressEvent{Message: "Installing mods...", Level: LevelInfo})
	installed, err := world.InstallPacks(ctx, m.Inventory(), m.settings.BehaviorPacksPath, m.settings.ResourcePacksPath)
	if err != nil {
		return err
	}
	m.step()

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Installed %d pack(s)", installed),
		Level:   LevelSuccess,
	})
	return nil
}

// GetProgress returns coarse deploy progress as (done, total) steps.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.stepsDone), atomic.LoadInt32(&m.stepsTotal)
}

func (m *Manager) step() {
	atomic.AddInt32(&m.stepsDone, 1)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

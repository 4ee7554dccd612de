package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"worldkeeper/internal/config"
	"worldkeeper/internal/world"
)

// fakePrompter scripts the operator's answers.
type fakePrompter struct {
	choice  int
	confirm bool

	chooseCalled  bool
	confirmCalled bool
}

func (p *fakePrompter) Choose(title string, options []string) (int, error) {
	p.chooseCalled = true
	return p.choice, nil
}

func (p *fakePrompter) Confirm(prompt string, def bool) (bool, error) {
	p.confirmCalled = true
	return p.confirm, nil
}

// writeZip builds a zip archive from name→content entries.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

// testSettings builds a full server layout under a temp root.
func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	root := t.TempDir()
	settings := config.DefaultSettings(root)
	settings.StagingPath = filepath.Join(root, "staging")
	for _, dir := range []string{settings.WorldsPath, settings.ModsPath, settings.BackupsPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return settings
}

func addMod(t *testing.T, settings *config.Settings, archiveName, uuid, moduleType string) {
	t.Helper()
	manifest := `{
		"header": {"name": "` + uuid + `", "uuid": "` + uuid + `", "version": [1, 0, 0]},
		"modules": [{"type": "` + moduleType + `"}]
	}`
	writeZip(t, filepath.Join(settings.ModsPath, archiveName), map[string]string{
		"manifest.json": manifest,
	})
}

func addWorldBackup(t *testing.T, settings *config.Settings, name string, extra map[string]string) {
	t.Helper()
	entries := map[string]string{
		"levelname.txt": "Imported World",
		"level.dat":     "level-data",
	}
	for k, v := range extra {
		entries[k] = v
	}
	writeZip(t, filepath.Join(settings.BackupsPath, name), entries)
}

func TestRun_FullDeploy(t *testing.T) {
	settings := testSettings(t)
	addMod(t, settings, "a.mcaddon", "u1", "data")
	addMod(t, settings, "b.mcpack", "u2", "resources")
	addWorldBackup(t, settings, "World_Jan01_2024.mcworld", map[string]string{
		world.BehaviorPacksFile: `[{"pack_id": "u1", "version": [1, 0, 0]}]`,
	})

	var events []ProgressEvent
	m := NewManager(settings, func(e ProgressEvent) { events = append(events, e) })
	defer m.Close()

	p := &fakePrompter{choice: 0}
	if err := Run(context.Background(), m, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.confirmCalled {
		t.Error("Confirm should not be asked when all packs are present")
	}

	active := settings.ActiveWorldDir()
	if data, _ := os.ReadFile(filepath.Join(active, "levelname.txt")); string(data) != "Imported World" {
		t.Errorf("active world = %q, want Imported World", data)
	}

	// Pack lists cover all available packs, not just the declared one.
	reqs, err := world.ReadRequirements(active)
	if err != nil {
		t.Fatalf("ReadRequirements: %v", err)
	}
	if len(reqs) != 2 {
		t.Errorf("wrote %d requirements, want 2: %v", len(reqs), reqs)
	}

	if _, err := os.Stat(filepath.Join(settings.BehaviorPacksPath, "u1", "manifest.json")); err != nil {
		t.Errorf("behavior pack not installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(settings.ResourcePacksPath, "u2", "manifest.json")); err != nil {
		t.Errorf("resource pack not installed: %v", err)
	}

	done, total := m.GetProgress()
	if done != total || total == 0 {
		t.Errorf("progress = %d/%d, want complete", done, total)
	}
}

func TestRun_MissingPacksDefaultCancel(t *testing.T) {
	settings := testSettings(t)
	addMod(t, settings, "a.mcaddon", "u1", "data")
	addWorldBackup(t, settings, "World_Jan01_2024.mcworld", map[string]string{
		world.BehaviorPacksFile: `[{"pack_id": "u1", "version": [1, 0, 0]}]`,
		world.ResourcePacksFile: `[{"pack_id": "u3", "version": [1, 0, 0]}]`,
	})

	m := NewManager(settings, nil)
	defer m.Close()

	// confirm=false is the scripted "take the default: cancel".
	p := &fakePrompter{choice: 0, confirm: false}
	err := Run(context.Background(), m, p)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run = %v, want ErrCancelled", err)
	}
	if !p.confirmCalled {
		t.Error("missing packs must trigger a confirmation")
	}

	// Nothing was deployed.
	if _, err := os.Stat(settings.ActiveWorldDir()); !os.IsNotExist(err) {
		t.Error("world deployed despite cancellation")
	}
}

func TestRun_MissingPacksContinueAnyway(t *testing.T) {
	settings := testSettings(t)
	addWorldBackup(t, settings, "World_Jan01_2024.mcworld", map[string]string{
		world.BehaviorPacksFile: `[{"pack_id": "u9", "version": [1, 0, 0]}]`,
	})

	m := NewManager(settings, nil)
	defer m.Close()

	p := &fakePrompter{choice: 0, confirm: true}
	if err := Run(context.Background(), m, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(settings.ActiveWorldDir()); err != nil {
		t.Errorf("world not deployed after continue-anyway: %v", err)
	}
}

func TestRun_SkipKeepsExistingWorld(t *testing.T) {
	settings := testSettings(t)
	addMod(t, settings, "a.mcaddon", "u1", "data")

	active := settings.ActiveWorldDir()
	if err := os.MkdirAll(active, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(active, "levelname.txt"), []byte("Existing"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(settings, nil)
	defer m.Close()

	p := &fakePrompter{choice: -1}
	if err := Run(context.Background(), m, p); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if data, _ := os.ReadFile(filepath.Join(active, "levelname.txt")); string(data) != "Existing" {
		t.Errorf("existing world modified: %q", data)
	}
	// Pack lists are still refreshed into the kept world.
	reqs, err := world.ReadRequirements(active)
	if err != nil {
		t.Fatalf("ReadRequirements: %v", err)
	}
	if len(reqs) != 1 || reqs[0].ID != "u1" {
		t.Errorf("pack lists not refreshed: %v", reqs)
	}
}

func TestRun_SkipWithoutExistingWorldCancels(t *testing.T) {
	settings := testSettings(t)

	m := NewManager(settings, nil)
	defer m.Close()

	p := &fakePrompter{choice: -1}
	if err := Run(context.Background(), m, p); !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run = %v, want ErrCancelled", err)
	}
}

func TestDeploy_ReplaceKeepsBackup(t *testing.T) {
	settings := testSettings(t)
	addWorldBackup(t, settings, "World_Jan01_2024.mcworld", nil)

	active := settings.ActiveWorldDir()
	if err := os.MkdirAll(active, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(active, "levelname.txt"), []byte("Old"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(settings, nil)
	defer m.Close()
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(settings.BackupsPath, "World_Jan01_2024.mcworld")
	if err := m.Deploy(context.Background(), archivePath, false); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	backupDir := active + world.BackupSuffix
	if data, _ := os.ReadFile(filepath.Join(backupDir, "levelname.txt")); string(data) != "Old" {
		t.Errorf("backup world = %q, want Old", data)
	}
}

func TestValidate_NoRequirements(t *testing.T) {
	settings := testSettings(t)
	addWorldBackup(t, settings, "World_Jan01_2024.mcworld", nil)

	m := NewManager(settings, nil)
	defer m.Close()
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	result, err := m.Validate(context.Background(), filepath.Join(settings.BackupsPath, "World_Jan01_2024.mcworld"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.FullyMatched() {
		t.Error("world without requirements should be fully matched")
	}
}

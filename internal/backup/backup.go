package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"worldkeeper/internal/archive"
	ioutils "worldkeeper/internal/io"
)

// Extension is the world archive file extension.
const Extension = ".mcworld"

// levelNameFile holds the world's display name inside the world
// directory.
const levelNameFile = "levelname.txt"

// Info describes one backup archive.
type Info struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// LevelName reads the world's level name, falling back to "World" when
// the file is absent or unreadable. Spaces become underscores and
// filesystem-hostile characters are sanitized, since the name ends up in
// a filename.
func LevelName(worldDir string) string {
	name := "World"
	if data, err := os.ReadFile(filepath.Join(worldDir, levelNameFile)); err == nil {
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			name = trimmed
		}
	}
	name = strings.ReplaceAll(name, " ", "_")
	return ioutils.SanitizeFileName(name)
}

// NextName generates the next free backup filename (without extension)
// in backupsDir for the given level name and time. The ladder:
// "<level>_<MonDD_YYYY>", then a lowercase letter suffix a-z, then a
// timestamp fallback that cannot realistically collide.
func NextName(backupsDir, levelName string, now time.Time) string {
	base := fmt.Sprintf("%s_%s", levelName, now.Format("Jan02_2006"))

	if !backupExists(backupsDir, base) {
		return base
	}
	for letter := 'a'; letter <= 'z'; letter++ {
		candidate := base + string(letter)
		if !backupExists(backupsDir, candidate) {
			return candidate
		}
	}
	return fmt.Sprintf("%s_backup_%s", base, now.Format("20060102_150405"))
}

func backupExists(backupsDir, name string) bool {
	_, err := os.Stat(filepath.Join(backupsDir, name+Extension))
	return err == nil
}

// Create archives worldDir into a freshly named .mcworld in backupsDir.
// onFile receives per-file progress. A partial archive never survives a
// failure.
func Create(ctx context.Context, worldDir, backupsDir string, onFile func(archive.FileProgress)) (Info, error) {
	if _, err := os.Stat(worldDir); err != nil {
		return Info{}, fmt.Errorf("world directory not found: %w", err)
	}
	if err := ioutils.EnsureDir(backupsDir); err != nil {
		return Info{}, fmt.Errorf("failed to create backups directory: %w", err)
	}

	name := NextName(backupsDir, LevelName(worldDir), time.Now())
	path := filepath.Join(backupsDir, name+Extension)

	if err := archive.Create(ctx, worldDir, path, onFile); err != nil {
		return Info{}, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("backup written but unreadable: %w", err)
	}
	return Info{
		Name:    name + Extension,
		Path:    path,
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
	}, nil
}

// List returns the .mcworld files in backupsDir, newest name first (the
// date-based naming makes reverse filename order roughly reverse
// chronological). A missing directory yields an empty list.
func List(backupsDir string) ([]Info, error) {
	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list backups directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Name:    entry.Name(),
			Path:    filepath.Join(backupsDir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

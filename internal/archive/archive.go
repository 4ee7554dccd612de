package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Error marks an archive as corrupt or unreadable. Callers decide whether
// that means skip-and-continue (inventory scanning) or abort (mandatory
// world extraction).
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unpack extracts all contents of the zip archive at src under dst,
// creating dst if absent. Entries that would escape dst are rejected.
// Returns *Error if the archive cannot be opened or read.
func Unpack(ctx context.Context, src, dst string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return &Error{Path: src, Err: err}
	}
	defer reader.Close()

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("failed to resolve destination: %w", err)
	}
	if err := os.MkdirAll(absDst, 0755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		destPath := filepath.Join(absDst, filepath.FromSlash(file.Name))

		// Check for path escaping (e.g., "../something")
		relPath, err := filepath.Rel(absDst, destPath)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return &Error{Path: src, Err: fmt.Errorf("entry %q escapes destination", file.Name)}
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", destPath, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", destPath, err)
		}
		if err := extractFile(file, destPath); err != nil {
			return &Error{Path: src, Err: fmt.Errorf("entry %q: %w", file.Name, err)}
		}
	}

	return nil
}

// extractFile writes one zip entry to destPath.
func extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, rc)
	return err
}

// FindManifests walks root recursively and returns the path of every
// manifest.json beneath it, in lexical walk order. Packs may place the
// manifest at the root or nest it one directory down; the walk does not
// care about depth.
func FindManifests(root string) ([]string, error) {
	var manifests []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && d.Name() == "manifest.json" {
			manifests = append(manifests, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for manifests: %w", root, err)
	}
	return manifests, nil
}

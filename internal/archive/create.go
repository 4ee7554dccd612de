package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// FileProgress reports one file added to an archive being created.
type FileProgress struct {
	// Name is the path of the entry inside the archive.
	Name string

	// Files is the number of entries written so far.
	Files int

	// Bytes is the uncompressed byte total written so far.
	Bytes int64
}

// TotalSize sums the sizes of all regular files under dir. Used to report
// compression ratios after a backup.
func TotalSize(dir string) (files int, bytes int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files++
		bytes += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to measure %s: %w", dir, err)
	}
	return files, bytes, nil
}

// Create zips the tree rooted at dir into a new archive at dst. Entry
// names are relative to dir with forward slashes, so the archive root is
// the directory's contents, which is the layout .mcworld consumers
// expect. onFile, if non-nil, is called after each file is added.
//
// On any failure the partial archive is removed before returning; a half
// written backup is worse than none.
func Create(ctx context.Context, dir, dst string, onFile func(FileProgress)) error {
	zipFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", dst, err)
	}

	zipWriter := zip.NewWriter(zipFile)

	var progress FileProgress
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}
		zipPath := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, err := zipWriter.Create(zipPath + "/"); err != nil {
				return fmt.Errorf("failed to create directory entry: %w", err)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = zipPath
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create archive entry: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write file data: %w", err)
		}

		progress.Name = zipPath
		progress.Files++
		progress.Bytes += int64(len(data))
		if onFile != nil {
			onFile(progress)
		}
		return nil
	})

	if err != nil {
		// Clean up on failure
		zipWriter.Close()
		zipFile.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to archive %s: %w", dir, err)
	}

	if err := zipWriter.Close(); err != nil {
		zipFile.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := zipFile.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to close archive: %w", err)
	}

	return nil
}

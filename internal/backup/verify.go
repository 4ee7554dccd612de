package backup

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"
)

// VerifyResult reports whether one backup archive is readable end to
// end.
type VerifyResult struct {
	Info Info
	Err  error
}

// maxConcurrentVerifies bounds how many archives are opened at once.
const maxConcurrentVerifies = 4

// Verify checks every backup in backupsDir by decompressing each entry
// and discarding the output. Archives are verified concurrently; results
// come back sorted by name. This is a maintenance operation on finished
// archives, separate from the strictly sequential scan/deploy paths.
func Verify(ctx context.Context, backupsDir string) ([]VerifyResult, error) {
	backups, err := List(backupsDir)
	if err != nil {
		return nil, err
	}

	results := make([]VerifyResult, len(backups))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentVerifies)

	for i, info := range backups {
		i, info := i, info
		g.Go(func() error {
			err := verifyArchive(ctx, info.Path)
			mu.Lock()
			results[i] = VerifyResult{Info: info, Err: err}
			mu.Unlock()
			return nil // a corrupt backup is a result, not a failure
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Info.Name < results[j].Info.Name
	})
	return results, nil
}

// verifyArchive decompresses every entry of one archive.
func verifyArchive(ctx context.Context, path string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		rc, err := file.Open()
		if err != nil {
			return err
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

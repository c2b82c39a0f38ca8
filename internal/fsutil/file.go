// Package fsutil holds the filesystem helpers artifact writers share.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// RenameWithRetry renames oldPath to newPath, retrying with doubling delays
// on Windows where an editor or indexer holding the target makes the rename
// fail transiently. Elsewhere the first error is returned.
func RenameWithRetry(oldPath, newPath string, maxRetries int, initialDelay time.Duration) error {
	var lastErr error
	delay := initialDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}
		lastErr = err
		if runtime.GOOS != "windows" {
			break
		}
		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("rename failed after %d attempt(s): %w", maxRetries+1, lastErr)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so a watcher or a concurrent status never reads half a file.
// Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := RenameWithRetry(tmpName, path, 3, 100*time.Millisecond); err != nil {
		cleanup()
		return err
	}
	return nil
}

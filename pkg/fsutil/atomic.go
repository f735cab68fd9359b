// Package fsutil provides filesystem utilities for atomic writes and syncing.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jvs-project/clonekit/pkg/guardfile"
	"github.com/jvs-project/clonekit/pkg/uuidutil"
)

const scratchPrefix = ".clonekit-tmp-"

// AtomicWrite stages data in a guarded scratch file next to path, fsyncs
// and closes it, then renames it over path. A failure at any step leaves
// path as it was and removes the scratch file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, uuidutil.ScratchName(scratchPrefix))

	tmp, err := guardfile.Create(tmpPath, guardfile.WithPerm(perm))
	if err != nil {
		return fmt.Errorf("atomic write create tmp: %w", err)
	}
	defer tmp.Cleanup()

	f := tmp.File()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("atomic write: %w", err)
	}
	// The create mode was subject to umask.
	if err := f.Chmod(perm); err != nil {
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := tmp.Seal(); err != nil {
		return fmt.Errorf("atomic write close: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("atomic write rename: %w", err)
	}
	tmp.Persist()

	if err := FsyncDir(dir); err != nil {
		return fmt.Errorf("atomic write fsync dir: %w", err)
	}
	return nil
}

// FsyncDir fsyncs a directory so renames and creations in it are durable.
func FsyncDir(dirPath string) error {
	d, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("fsync dir open: %w", err)
	}
	defer d.Close()
	return d.Sync()
}

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/fsutil"
	"github.com/jvs-project/clonekit/pkg/model"
	"github.com/jvs-project/clonekit/pkg/pathutil"
)

// CopyEngine performs a full recursive copy of directories.
type CopyEngine struct {
	Options
}

// NewCopyEngine creates a new CopyEngine.
func NewCopyEngine() *CopyEngine {
	return &CopyEngine{Options: DefaultOptions()}
}

// Name returns the engine type.
func (e *CopyEngine) Name() model.EngineType {
	return model.EngineCopy
}

// Clone recursively copies src to dst.
func (e *CopyEngine) Clone(src, dst string) (*CloneResult, error) {
	return runClone(e.Name(), e.Options, src, dst, func(srcPath, dstPath string, result *CloneResult) error {
		n, err := copyFile(srcPath, dstPath, e.Options)
		if err != nil {
			return err
		}
		fr := model.FileResult{Path: dstPath, Method: model.MethodCopy, Bytes: n}
		e.recordFile(fr)
		result.add(fr)
		return nil
	})
}

type fileCloner func(srcPath, dstPath string, result *CloneResult) error

// runClone walks src and mirrors it under dst, handing regular files to
// cloneFn. Each file goes through a guard, so a failure leaves no partial
// file behind; files finished before the failure are kept.
func runClone(name model.EngineType, o Options, src, dst string, cloneFn fileCloner) (*CloneResult, error) {
	if o.Progress != nil {
		inner := cloneFn
		cloneFn = func(srcPath, dstPath string, result *CloneResult) error {
			if err := inner(srcPath, dstPath, result); err != nil {
				return err
			}
			o.Progress.Increment(dstPath)
			return nil
		}
	}

	start := time.Now()
	result, err := walkClone(src, dst, cloneFn)
	if o.Metrics != nil {
		o.Metrics.RecordClone(string(name), err == nil, time.Since(start))
	}
	if err != nil {
		o.logger().ErrorErr("clone failed", err, map[string]any{"engine": string(name), "src": src, "dst": dst})
		return nil, errclass.ErrCloneFailed.WithMessagef("%s: %s -> %s", name, src, dst).WithCause(err)
	}

	o.logger().Info("clone complete", map[string]any{
		"engine":    string(name),
		"src":       src,
		"dst":       dst,
		"reflinked": result.Reflinked,
		"copied":    result.Copied,
		"degraded":  result.Degraded,
	})
	return result, nil
}

func walkClone(src, dst string, cloneFn fileCloner) (*CloneResult, error) {
	result := &CloneResult{}

	rootInfo, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat src: %w", err)
	}
	if !rootInfo.IsDir() {
		if err := cloneFn(src, dst, result); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := pathutil.ValidateClonePaths(src, dst); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dst, rootInfo.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("create dst directory: %w", err)
	}

	// Track hardlinks to detect degradation
	seenInodes := make(map[uint64]string)

	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		if rel == "." {
			return nil
		}
		dstPath := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			if err := os.MkdirAll(dstPath, info.Mode().Perm()); err != nil {
				return fmt.Errorf("mkdir %s: %w", dstPath, err)
			}
			return nil

		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return fmt.Errorf("symlink %s: %w", dstPath, err)
			}
			return nil

		case info.Mode().IsRegular():
			if ino, ok := fileInode(info); ok {
				if seenInodes[ino] != "" {
					// Hardlinks are cloned as independent files.
					result.degrade("hardlink")
				} else {
					seenInodes[ino] = path
				}
			}
			return cloneFn(path, dstPath, result)

		default:
			result.degrade("special-file")
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	// Fsync the destination directory
	if err := fsutil.FsyncDir(dst); err != nil {
		return nil, fmt.Errorf("fsync dst: %w", err)
	}

	return result, nil
}

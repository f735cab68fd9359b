package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/guardfile"
	"github.com/jvs-project/clonekit/pkg/model"
)

// ReflinkFile creates dst as a copy-on-write clone of src.
// dst must not exist. If the clone fails, dst is removed again.
// Errors match errclass.ErrReflinkUnsupported when the platform or
// filesystem cannot share extents between the two files.
func ReflinkFile(src, dst string) error {
	return reflinkFile(src, dst, DefaultOptions())
}

// CopyFile creates dst with the contents of src, preserving mode bits and
// modification time. dst must not exist. A partially written dst is
// removed on failure.
func CopyFile(src, dst string) (int64, error) {
	return copyFile(src, dst, DefaultOptions())
}

// ReflinkOrCopy reflinks src to dst, falling back to CopyFile when the
// reflink fails for a reason copying would not also hit.
func ReflinkOrCopy(src, dst string) (model.FileResult, error) {
	return reflinkOrCopy(src, dst, DefaultOptions())
}

// ReflinkFile is ReflinkFile with o in place of the default options.
func (o Options) ReflinkFile(src, dst string) error {
	if err := reflinkFile(src, dst, o); err != nil {
		return err
	}
	o.recordFile(model.FileResult{Path: dst, Method: model.MethodReflink})
	return nil
}

// CopyFile is CopyFile with o in place of the default options.
func (o Options) CopyFile(src, dst string) (int64, error) {
	n, err := copyFile(src, dst, o)
	if err != nil {
		return n, err
	}
	o.recordFile(model.FileResult{Path: dst, Method: model.MethodCopy, Bytes: n})
	return n, nil
}

// ReflinkOrCopy is ReflinkOrCopy with o in place of the default options.
func (o Options) ReflinkOrCopy(src, dst string) (model.FileResult, error) {
	return reflinkOrCopy(src, dst, o)
}

// ReflinkRange clones length bytes at srcOff in src into dst at dstOff.
// Offsets and length must be aligned to the filesystem block size, except
// that length may run to the end of src.
func ReflinkRange(src, dst *os.File, srcOff, dstOff, length int64) error {
	if srcOff < 0 || dstOff < 0 || length < 0 {
		return fmt.Errorf("reflink range: negative offset or length")
	}
	if err := cloneRange(dst, src, srcOff, dstOff, length); err != nil {
		return fmt.Errorf("reflink range %s -> %s: %w", src.Name(), dst.Name(), err)
	}
	return nil
}

func openSource(src string) (*os.File, os.FileInfo, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, nil, fmt.Errorf("open src: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat src: %w", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("src %s is not a regular file", src)
	}
	return f, info, nil
}

func reflinkFile(src, dst string, o Options) error {
	if !reflinkAvailable {
		return errclass.ErrReflinkUnsupported.WithMessage("platform has no file clone call")
	}

	srcFile, info, err := openSource(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	g, err := guardfile.Create(dst, guardfile.WithPerm(info.Mode().Perm()), guardfile.WithLogger(o.Log))
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	defer g.Cleanup()

	if err := cloneFile(g.File(), srcFile); err != nil {
		return err
	}
	if err := finish(g, info, false); err != nil {
		return err
	}

	g.Persist()
	return nil
}

func copyFile(src, dst string, o Options) (int64, error) {
	srcFile, info, err := openSource(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	return copyOpened(srcFile, info, dst, o)
}

// copyOpened copies the already opened srcFile, described by info, to dst.
func copyOpened(srcFile *os.File, info os.FileInfo, dst string, o Options) (int64, error) {
	src := srcFile.Name()
	g, err := guardfile.Create(dst, guardfile.WithPerm(info.Mode().Perm()), guardfile.WithLogger(o.Log))
	if err != nil {
		return 0, fmt.Errorf("create dst: %w", err)
	}
	defer g.Cleanup()

	if err := g.SizeWillBe(info.Size()); err != nil {
		return 0, fmt.Errorf("reserve %s: %w", dst, err)
	}

	f := g.File()
	n, err := io.Copy(f, srcFile)
	if err != nil {
		return n, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	// The source shrank while we read it; drop the reserved tail.
	if n < info.Size() {
		if err := f.Truncate(n); err != nil {
			return n, fmt.Errorf("truncate %s: %w", dst, err)
		}
	}

	if err := finish(g, info, o.Fsync); err != nil {
		return n, err
	}

	g.Persist()
	return n, nil
}

// finish applies src metadata to a guarded file that is about to be persisted.
func finish(g *guardfile.File, info os.FileInfo, fsync bool) error {
	f := g.File()
	// Create's mode was subject to umask.
	if err := f.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", g.Path(), err)
	}
	if fsync {
		if err := f.Sync(); err != nil {
			return fmt.Errorf("sync %s: %w", g.Path(), err)
		}
	}
	if err := os.Chtimes(g.Path(), info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("chtimes %s: %w", g.Path(), err)
	}
	return nil
}

// cloneError is a failure of the clone call itself, as opposed to opening
// or creating the files around it.
type cloneError struct {
	op  string
	err error
}

func (e *cloneError) Error() string { return e.op + ": " + e.err.Error() }
func (e *cloneError) Unwrap() error { return e.err }

// fatalForFallback reports reflink errors that a plain copy would hit too.
func fatalForFallback(err error) bool {
	var ce *cloneError
	if errors.As(err, &ce) {
		return false
	}
	return errors.Is(err, errclass.ErrDestExists) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

func reflinkOrCopy(src, dst string, o Options) (model.FileResult, error) {
	err := reflinkFile(src, dst, o)
	if err == nil {
		fr := model.FileResult{Path: dst, Method: model.MethodReflink}
		o.recordFile(fr)
		return fr, nil
	}
	if fatalForFallback(err) {
		return model.FileResult{}, err
	}

	o.logger().Debug("reflink failed, copying", map[string]any{"src": src, "dst": dst, "error": err.Error()})

	n, err := copyFile(src, dst, o)
	if err != nil {
		return model.FileResult{}, err
	}
	fr := model.FileResult{Path: dst, Method: model.MethodCopy, Bytes: n}
	o.recordFile(fr)
	return fr, nil
}

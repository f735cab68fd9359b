// Package guardfile creates destination files that are removed again
// unless the caller persists them.
//
// A File is created exclusively at a caller-supplied path, hands out its
// handle and descriptor for low-level copy work (reflink, block clone,
// plain writes), and is either persisted once that work succeeds or
// cleaned up on every other exit path:
//
//	g, err := guardfile.Create(dst)
//	if err != nil {
//		return err
//	}
//	defer g.Cleanup()
//
//	if err := clone(src, g.Fd()); err != nil {
//		return err // dst is removed
//	}
//	g.Persist()
//
// A File is a single-owner guard and is not safe for concurrent use.
package guardfile

import (
	"errors"
	"io/fs"
	"os"

	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/logging"
)

// File guards one exclusively created file.
//
// f is non-nil exactly while the guard owns the file on disk. Persist and
// Cleanup both release it, after which the guard is inert. sealed means
// the handle is closed but the file is still owned.
type File struct {
	f      *os.File
	sealed bool
	path   string
	log    *logging.Logger
}

type options struct {
	perm os.FileMode
	flag int
	log  *logging.Logger
}

// Option configures Create.
type Option func(*options)

// WithPerm sets the mode the file is created with (before umask).
func WithPerm(perm os.FileMode) Option {
	return func(o *options) { o.perm = perm }
}

// WithReadWrite opens the file for reading as well as writing.
func WithReadWrite() Option {
	return func(o *options) { o.flag = os.O_RDWR }
}

// WithLogger sets where cleanup failures are reported.
// Without it the global logger is used.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// Create creates a new file at path, failing if anything already exists
// there. O_EXCL makes the check and the creation one atomic step, so of two
// concurrent Creates on the same path exactly one succeeds.
//
// Errors match errclass.ErrDestExists when the path is occupied and
// errclass.ErrDestCreate otherwise; the *fs.PathError stays in the chain.
func Create(path string, opts ...Option) (*File, error) {
	o := options{perm: 0o666, flag: os.O_WRONLY}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.OpenFile(path, o.flag|os.O_CREATE|os.O_EXCL, o.perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, errclass.ErrDestExists.WithCause(err)
		}
		return nil, errclass.ErrDestCreate.WithCause(err)
	}

	return &File{f: f, path: path, log: o.log}, nil
}

// Path returns the path the file was created at.
func (g *File) Path() string {
	return g.path
}

// Active reports whether the guard still owns the file.
func (g *File) Active() bool {
	return g != nil && g.f != nil
}

// File returns the open handle. The handle is owned by the guard and is
// only valid until Persist or Cleanup.
func (g *File) File() *os.File {
	return g.handle()
}

// Fd returns the OS descriptor of the open handle, with the same lifetime
// as File.
func (g *File) Fd() uintptr {
	return g.handle().Fd()
}

func (g *File) handle() *os.File {
	if g.f == nil {
		panic("guardfile: use of released file " + g.path)
	}
	if g.sealed {
		panic("guardfile: use of sealed file " + g.path)
	}
	return g.f
}

// Seal closes the handle and reports the close error, while the guard keeps
// owning the file: Cleanup still removes it and Persist still keeps it.
// Callers that rename the file before persisting it seal it first, since
// some platforms refuse to rename open files. Fd and File panic after Seal;
// a second Seal is a no-op. Sealing a released guard panics.
func (g *File) Seal() error {
	if g.f == nil {
		panic("guardfile: use of released file " + g.path)
	}
	if g.sealed {
		return nil
	}
	g.sealed = true
	return g.f.Close()
}

// Persist hands the file on disk over to the caller: the handle is closed
// and the file is left in place. Persist does not fail; a close error is
// only logged. Calling Persist on a released guard panics.
func (g *File) Persist() {
	if g.f == nil {
		panic("guardfile: use of released file " + g.path)
	}
	f, sealed := g.f, g.sealed
	g.f = nil

	if sealed {
		return
	}
	if err := f.Close(); err != nil {
		g.logger().WarnErr("close of persisted file failed", err, map[string]any{"path": g.path})
	}
}

// Cleanup closes the handle and removes the file if the guard still owns
// it. It is a no-op after Persist or a previous Cleanup, never panics, and
// never reports an error: failures go to the logger.
func (g *File) Cleanup() {
	if !g.Active() {
		return
	}
	f, sealed := g.f, g.sealed
	g.f = nil

	// Windows refuses to remove open files.
	if !sealed {
		_ = f.Close()
	}

	err := os.Remove(g.path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		g.logger().Debug("guarded file already removed", map[string]any{"path": g.path})
	default:
		g.logger().WarnErr("failed to remove destination file on cleanup", err, map[string]any{"path": g.path})
	}
}

// Close is Cleanup for use where an io.Closer is expected. It always
// returns nil.
func (g *File) Close() error {
	g.Cleanup()
	return nil
}

func (g *File) logger() *logging.Logger {
	if g.log != nil {
		return g.log
	}
	if l := logging.Global(); l != nil {
		return l
	}
	return logging.Discard()
}

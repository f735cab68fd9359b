//go:build linux

package engine

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/jvs-project/clonekit/pkg/errclass"
)

const reflinkAvailable = true

// cloneFile shares all of src's extents with dst (FICLONE).
func cloneFile(dst, src *os.File) error {
	if err := unix.IoctlFileClone(int(dst.Fd()), int(src.Fd())); err != nil {
		return reflinkError("ficlone", err)
	}
	return nil
}

// cloneRange shares a byte range of src with dst (FICLONERANGE).
func cloneRange(dst, src *os.File, srcOff, dstOff, length int64) error {
	err := unix.IoctlFileCloneRange(int(dst.Fd()), &unix.FileCloneRange{
		Src_fd:      int64(src.Fd()),
		Src_offset:  uint64(srcOff),
		Src_length:  uint64(length),
		Dest_offset: uint64(dstOff),
	})
	if err != nil {
		return reflinkError("ficlonerange", err)
	}
	return nil
}

// reflinkError separates "this filesystem pair cannot reflink" from real
// I/O failures.
func reflinkError(op string, err error) error {
	switch {
	case errors.Is(err, unix.EOPNOTSUPP),
		errors.Is(err, unix.EXDEV),
		errors.Is(err, unix.ENOTTY),
		errors.Is(err, unix.EINVAL),
		errors.Is(err, unix.ENOSYS):
		return errclass.ErrReflinkUnsupported.WithMessage(op).WithCause(err)
	default:
		return &cloneError{op: op, err: err}
	}
}

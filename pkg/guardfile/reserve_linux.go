//go:build linux

package guardfile

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func reserve(f *os.File, numBytes int64) error {
	fd := int(f.Fd())
	err := unix.Fallocate(fd, 0, 0, numBytes)
	if errors.Is(err, unix.EOPNOTSUPP) {
		return f.Truncate(numBytes)
	}
	if err != nil {
		return err
	}

	// Advisory only.
	_ = unix.Fadvise(fd, 0, numBytes, unix.FADV_SEQUENTIAL)
	return nil
}

//go:build !linux

package guardfile

import "os"

func reserve(f *os.File, numBytes int64) error {
	return f.Truncate(numBytes)
}

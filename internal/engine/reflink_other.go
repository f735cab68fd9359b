//go:build !linux

package engine

import (
	"os"

	"github.com/jvs-project/clonekit/pkg/errclass"
)

// FICLONE is a Linux ioctl. clonefile(2) on darwin creates the destination
// itself and so cannot fill an already created file.
const reflinkAvailable = false

func cloneFile(_, _ *os.File) error {
	return errclass.ErrReflinkUnsupported.WithMessage("ficlone")
}

func cloneRange(_, _ *os.File, _, _, _ int64) error {
	return errclass.ErrReflinkUnsupported.WithMessage("ficlonerange")
}

package engine

import (
	"errors"

	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/model"
)

// ReflinkEngine performs reflink-based copy (O(1) CoW) on supported filesystems.
// Falls back to regular copy for files that cannot be reflinked.
type ReflinkEngine struct {
	Options
}

// NewReflinkEngine creates a new ReflinkEngine.
func NewReflinkEngine() *ReflinkEngine {
	return &ReflinkEngine{Options: DefaultOptions()}
}

// Name returns the engine type.
func (e *ReflinkEngine) Name() model.EngineType {
	return model.EngineReflinkCopy
}

// Clone reflinks every regular file under src into dst, copying the ones
// that cannot be reflinked. The result is degraded if any file was copied.
func (e *ReflinkEngine) Clone(src, dst string) (*CloneResult, error) {
	return runClone(e.Name(), e.Options, src, dst, func(srcPath, dstPath string, result *CloneResult) error {
		fr, err := reflinkOrCopy(srcPath, dstPath, e.Options)
		if err != nil {
			return err
		}
		if fr.Method == model.MethodCopy {
			result.degrade("reflink")
		}
		result.add(fr)
		return nil
	})
}

// IsUnsupported reports whether err means reflinks are unavailable, as
// opposed to an I/O failure.
func IsUnsupported(err error) bool {
	return errors.Is(err, errclass.ErrReflinkUnsupported)
}

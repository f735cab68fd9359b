// Package engine clones files and directory trees, preferring reflinks and
// falling back to plain copies. Every destination file is created through
// a guardfile.File, so a failed file clone never leaves a partial file.
package engine

import (
	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/model"
)

// NewEngine creates an engine based on the specified type.
// Falls back to CopyEngine for anything but reflink-copy.
func NewEngine(engineType model.EngineType) Engine {
	switch engineType {
	case model.EngineReflinkCopy:
		return NewReflinkEngine()
	default:
		return NewCopyEngine()
	}
}

// Resolve returns the engine for engineType, running detection against dir
// for EngineAuto.
func Resolve(engineType model.EngineType, dir string) (Engine, error) {
	switch engineType {
	case model.EngineAuto, "":
		return DetectEngine(dir)
	case model.EngineReflinkCopy, model.EngineCopy:
		return NewEngine(engineType), nil
	default:
		return nil, errclass.ErrEngineUnknown.WithMessage(string(engineType))
	}
}

// WithOptions applies o to engines built by this package.
func WithOptions(e Engine, o Options) Engine {
	switch eng := e.(type) {
	case *CopyEngine:
		eng.Options = o
	case *ReflinkEngine:
		eng.Options = o
	}
	return e
}

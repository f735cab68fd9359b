package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jvs-project/clonekit/pkg/guardfile"
	"github.com/jvs-project/clonekit/pkg/logging"
	"github.com/jvs-project/clonekit/pkg/model"
	"github.com/jvs-project/clonekit/pkg/uuidutil"
)

// EnvEngine overrides engine auto-detection.
const EnvEngine = "CLONEKIT_ENGINE"

const probePrefix = ".clonekit-probe-"

var probeData = []byte("clonekit reflink probe\n")

// CheckReflinkSupport reports whether files in fromDir can be reflinked
// into toDir. It writes a small probe file in fromDir and tries to clone it
// into toDir; both probe files are removed again.
//
// SupportUnknown comes with the error that prevented a verdict.
func CheckReflinkSupport(fromDir, toDir string) (model.ReflinkSupport, error) {
	srcPath := filepath.Join(fromDir, uuidutil.ScratchName(probePrefix))
	probe, err := guardfile.Create(srcPath, guardfile.WithPerm(0600))
	if err != nil {
		return model.SupportUnknown, fmt.Errorf("create probe: %w", err)
	}
	// The probe source is never persisted.
	defer probe.Cleanup()

	if _, err := probe.File().Write(probeData); err != nil {
		return model.SupportUnknown, fmt.Errorf("write probe: %w", err)
	}

	dstPath := filepath.Join(toDir, uuidutil.ScratchName(probePrefix))
	err = reflinkFile(srcPath, dstPath, Options{Log: logging.Discard()})
	switch {
	case err == nil:
		if rmErr := os.Remove(dstPath); rmErr != nil {
			logging.Warn("failed to remove reflink probe", map[string]any{"path": dstPath, "error": rmErr.Error()})
		}
		return model.SupportYes, nil
	case IsUnsupported(err):
		return model.SupportNo, nil
	default:
		return model.SupportUnknown, err
	}
}

// DetectEngine auto-detects the best available engine for dir.
// Detection order: the CLONEKIT_ENGINE override, reflink-copy if a probe
// reflink inside dir succeeds, copy if it fails as unsupported. A probe
// that cannot reach a verdict, for example because dir is missing or not
// writable, is returned as an error.
func DetectEngine(dir string) (Engine, error) {
	if v := os.Getenv(EnvEngine); v != "" {
		if t, err := model.ParseEngineType(v); err == nil && t != model.EngineAuto {
			return NewEngine(t), nil
		}
		logging.Warn("ignoring unknown engine override", map[string]any{"env": EnvEngine, "value": v})
	}

	support, err := CheckReflinkSupport(dir, dir)
	logging.Debug("reflink probe", map[string]any{"dir": dir, "support": string(support)})
	switch support {
	case model.SupportYes:
		return NewReflinkEngine(), nil
	case model.SupportNo:
		return NewCopyEngine(), nil
	default:
		return nil, fmt.Errorf("detect engine in %s: %w", dir, err)
	}
}

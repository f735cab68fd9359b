package cli

import (
	"fmt"
	"os"

	"github.com/jvs-project/clonekit/internal/engine"
	"github.com/jvs-project/clonekit/pkg/color"
	"github.com/jvs-project/clonekit/pkg/metrics"
)

// engineOptions builds engine options from the loaded config.
func engineOptions() engine.Options {
	return engine.Options{
		Fsync:   cfg.Fsync,
		Metrics: metrics.Default(),
	}
}

func fmtErr(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errPrefix()+fmt.Sprintf(format, args...))
}

func errPrefix() string {
	if color.Enabled() {
		return color.Error("clonekit:") + " "
	}
	return "clonekit: "
}

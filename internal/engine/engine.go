package engine

import (
	"github.com/jvs-project/clonekit/pkg/logging"
	"github.com/jvs-project/clonekit/pkg/metrics"
	"github.com/jvs-project/clonekit/pkg/model"
	"github.com/jvs-project/clonekit/pkg/progress"
)

// CloneResult contains the result of a clone operation.
type CloneResult struct {
	Degraded     bool     `json:"degraded"`               // true if any degradation occurred
	Degradations []string `json:"degradations,omitempty"` // distinct degradation kinds
	Reflinked    int      `json:"reflinked"`
	Copied       int      `json:"copied"`
	BytesCopied  int64    `json:"bytes_copied"`
}

func (r *CloneResult) degrade(kind string) {
	r.Degraded = true
	for _, k := range r.Degradations {
		if k == kind {
			return
		}
	}
	r.Degradations = append(r.Degradations, kind)
}

func (r *CloneResult) add(fr model.FileResult) {
	switch fr.Method {
	case model.MethodReflink:
		r.Reflinked++
	case model.MethodCopy:
		r.Copied++
		r.BytesCopied += fr.Bytes
	}
}

// Engine defines the clone engine interface.
type Engine interface {
	// Name returns the engine type identifier.
	Name() model.EngineType

	// Clone copies the tree at src to dst. Regular files are never
	// overwritten: an existing destination file fails the clone.
	// Returns CloneResult with degradation info if applicable.
	Clone(src, dst string) (*CloneResult, error)
}

// Options are shared by all engines.
type Options struct {
	// Fsync flushes every copied file before it is persisted.
	Fsync bool

	// Log receives fallback and cleanup events. Nil means the global logger.
	Log *logging.Logger

	// Metrics receives per-file and per-clone counters. Nil disables them.
	Metrics *metrics.Registry

	// Progress is advanced once per regular file cloned by an engine.
	Progress *progress.Counter
}

// DefaultOptions returns fsync on, the global logger and the default registry.
func DefaultOptions() Options {
	return Options{
		Fsync:   true,
		Metrics: metrics.Default(),
	}
}

func (o Options) logger() *logging.Logger {
	if o.Log != nil {
		return o.Log
	}
	return logging.Global()
}

func (o Options) recordFile(fr model.FileResult) {
	if o.Metrics != nil {
		o.Metrics.RecordFile(string(fr.Method), fr.Bytes)
	}
}

// Package metrics exports clone counters through Prometheus.
package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "clonekit"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Registry holds the clonekit collectors on a private prometheus registry.
type Registry struct {
	reg      *prometheus.Registry
	clones   *prometheus.CounterVec
	files    *prometheus.CounterVec
	bytes    prometheus.Counter
	duration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		clones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clones_total",
			Help:      "Clone operations by engine and result.",
		}, []string{"engine", "result"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files written by method (reflink or copy).",
		}, []string{"method"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copied_bytes_total",
			Help:      "Bytes written by the copy fallback.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "clone_duration_seconds",
			Help:      "Wall time of clone operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"engine"}),
	}
	r.reg.MustRegister(r.clones, r.files, r.bytes, r.duration)
	return r
}

// RecordClone records one clone operation.
func (r *Registry) RecordClone(engine string, success bool, d time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	r.clones.WithLabelValues(engine, result).Inc()
	r.duration.WithLabelValues(engine).Observe(d.Seconds())
}

// RecordFile records one file that reached its destination.
func (r *Registry) RecordFile(method string, copiedBytes int64) {
	r.files.WithLabelValues(method).Inc()
	if copiedBytes > 0 {
		r.bytes.Add(float64(copiedBytes))
	}
}

// WriteText writes all metrics in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

// Package progress provides progress reporting for long-running operations.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// Callback receives progress updates during long operations.
type Callback func(op string, current int, message string)

// Noop is a no-op callback for default behavior.
func Noop(op string, current int, message string) {}

// Counter counts completed items of an operation whose total is not known
// upfront. It is safe for concurrent use.
type Counter struct {
	Op      string
	current atomic.Int64
	cb      Callback
}

// New creates a new Counter.
func New(op string, cb Callback) *Counter {
	if cb == nil {
		cb = Noop
	}
	return &Counter{Op: op, cb: cb}
}

// Increment advances the counter and calls the callback.
func (c *Counter) Increment(message string) {
	n := c.current.Add(1)
	c.cb(c.Op, int(n), message)
}

// Current returns the current count.
func (c *Counter) Current() int {
	return int(c.current.Load())
}

// Terminal renders a running count on a single terminal line.
type Terminal struct {
	writer  io.Writer
	enabled atomic.Bool

	mu          sync.Mutex
	last        int
	lastLineLen int
	op          string
}

// NewTerminal creates a terminal renderer writing to w.
func NewTerminal(w io.Writer, enabled bool) *Terminal {
	t := &Terminal{writer: w}
	t.enabled.Store(enabled)
	return t
}

// Callback returns a Callback function for this terminal.
func (t *Terminal) Callback() Callback {
	return func(op string, current int, message string) {
		if !t.enabled.Load() {
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		t.op = op
		t.last = current
		t.render(fmt.Sprintf("%s... %d files %s", op, current, message))
	}
}

// render overwrites the previous line. Callers hold t.mu.
func (t *Terminal) render(line string) {
	clear := "\r"
	if t.lastLineLen > 0 {
		clear = "\r" + strings.Repeat(" ", t.lastLineLen) + "\r"
	}
	fmt.Fprint(t.writer, clear+line)
	t.lastLineLen = len(line)
}

// Done replaces the running count with a final line.
func (t *Terminal) Done(finalMessage string) {
	if !t.enabled.Load() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if finalMessage == "" {
		finalMessage = fmt.Sprintf("%s complete (%d files)", t.op, t.last)
	}
	t.render(finalMessage)
	fmt.Fprintln(t.writer)
	t.lastLineLen = 0
}

// SetEnabled enables or disables rendering.
func (t *Terminal) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// IsEnabled returns whether rendering is enabled.
func (t *Terminal) IsEnabled() bool {
	return t.enabled.Load()
}

// Package color provides terminal color output for clonekit.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"os"
	"sync"
)

var state struct {
	mu      sync.Mutex
	once    sync.Once
	enabled bool
}

// Init decides whether to color output. Only the first call has effect.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		_, noColorEnv := os.LookupEnv("NO_COLOR")
		enabled := !noColorEnv && os.Getenv("TERM") != "dumb" && !noColorFlag
		state.mu.Lock()
		state.enabled = enabled
		state.mu.Unlock()
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.enabled
}

// Disable turns off color output.
func Disable() {
	Init(false)
	state.mu.Lock()
	state.enabled = false
	state.mu.Unlock()
}

// Enable turns on color output.
func Enable() {
	Init(false)
	state.mu.Lock()
	state.enabled = true
	state.mu.Unlock()
}

// ANSI color codes
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + Reset
}

// Success formats a success message in green.
func Success(s string) string { return wrap(Green, s) }

// Error formats an error message in red.
func Error(s string) string { return wrap(Red, s) }

// Warning formats a warning message in yellow.
func Warning(s string) string { return wrap(Yellow, s) }

// Path formats a filesystem path in cyan.
func Path(s string) string { return wrap(Cyan, s) }

// Faint formats secondary text such as hints.
func Faint(s string) string { return wrap(Dim, s) }

// Code formats a command the user can run.
func Code(s string) string { return wrap(Bold+Cyan, s) }

// Header formats a header in bold.
func Header(s string) string { return wrap(Bold, s) }

// Method colors a copy method: green for reflinks, yellow for byte copies.
func Method(m string) string {
	if m == "reflink" {
		return Success(m)
	}
	return Warning(m)
}

// Package monitoring holds the shared diagnostic logger and progress
// reporting used while rendering.
package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. Every package logs through
// it so the CLI can mute or redirect all output at once.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf and returns the logger it replaced. nil mutes
// logging.
func SetLogger(f func(format string, v ...interface{})) (previous func(format string, v ...interface{})) {
	previous = Logf
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	Logf = f
	return previous
}

// Recorder keeps formatted log lines in memory.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Logf formats and stores one line. It has the signature SetLogger expects.
func (r *Recorder) Logf(format string, v ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Package runlog writes the per-execution log file. Each sandbox run owns one
// Logger instance; nothing here is process-global, so concurrent runs cannot
// interleave each other's lines.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Logger struct {
	mu      sync.Mutex
	f       *os.File
	path    string
	section string
}

func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	return &Logger{f: f, path: path}, nil
}

func (l *Logger) Path() string {
	return l.path
}

// Header writes the run preamble: model spec, timestamp, and the input payload.
func (l *Logger) Header(modelSpec, input string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "=== Scaffold Execution Log ===\n")
	fmt.Fprintf(l.f, "Model: %s\n", modelSpec)
	fmt.Fprintf(l.f, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(l.f, "\n=== INPUT ===\n%s\n", input)
}

// Stream appends text under the named section (STDOUT, STDERR, ...), writing a
// section marker only when the stream changes.
func (l *Logger) Stream(name, text string) {
	if text == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.section != name {
		fmt.Fprintf(l.f, "\n=== %s ===\n", name)
		l.section = name
	}
	fmt.Fprint(l.f, text)
}

// Section writes a one-off titled block.
func (l *Logger) Section(name, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "\n=== %s ===\n%s\n", name, text)
	l.section = name
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// Package debug provides env-gated diagnostic logging. TTCT_DEBUG=1 logs to
// stderr; TTCT_DEBUG_FILE=<path> appends to a file instead, so the logs do
// not draw over the TUI.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	out io.Writer
)

func init() {
	configure(os.Getenv)
}

func configure(getenv func(string) string) {
	mu.Lock()
	defer mu.Unlock()

	out = nil
	if path := getenv("TTCT_DEBUG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			out = f
			return
		}
		fmt.Fprintf(os.Stderr, "debug: open %s: %v\n", path, err)
	}
	if getenv("TTCT_DEBUG") == "1" {
		out = os.Stderr
	}
}

// SetOutput redirects debug output and returns the previous writer. nil
// disables logging.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// Writer returns the debug output, or nil when logging is disabled.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// Logf writes a timestamped debug line when logging is enabled.
func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[DEBUG %s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	return Writer() != nil
}

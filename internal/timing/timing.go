// Package timing records startup checkpoints when TTCT_DEBUG_TIMING=1.
// Checkpoints go to the debug output when one is configured, else stderr.
package timing

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/debug"
)

var (
	mu        sync.Mutex
	enabled   bool
	startTime time.Time
	lastTime  time.Time
	now       = time.Now
	output    = defaultOutput
)

func init() {
	if os.Getenv("TTCT_DEBUG_TIMING") == "1" {
		Enable()
	}
}

// Enable turns checkpoint logging on and resets the reference point.
func Enable() {
	mu.Lock()
	enabled = true
	mu.Unlock()
	Start()
}

// Start resets the reference point for subsequent checkpoints.
func Start() {
	mu.Lock()
	defer mu.Unlock()
	startTime = now()
	lastTime = startTime
}

// Log writes a checkpoint with the time since the previous one and since
// Start.
func Log(label string) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	t := now()
	fmt.Fprintf(output(), "[TIMING] %s: +%dms (total: %dms)\n",
		label, t.Sub(lastTime).Milliseconds(), t.Sub(startTime).Milliseconds())
	lastTime = t
}

func defaultOutput() io.Writer {
	if w := debug.Writer(); w != nil {
		return w
	}
	return os.Stderr
}

package config

import (
	"time"

	"github.com/alexander-akhmetov/ttct/internal/dirs"
)

// DatabasePath returns the configured database path or the XDG default.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return dirs.DatabasePath()
}

// LogsPath returns the configured logs directory or the XDG default.
func (c *Config) LogsPath() string {
	if c.LogsDir != "" {
		return c.LogsDir
	}
	return dirs.LogsDir()
}

// Latency is the simulated backend delay. Zero disables it.
func (c *Config) Latency() time.Duration {
	if c.LatencyMs <= 0 {
		return 0
	}
	return time.Duration(c.LatencyMs) * time.Millisecond
}

// AutosaveDelay is the debounce applied to auto-saves after an edit.
func (c *Config) AutosaveDelay() time.Duration {
	if c.AutosaveDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.AutosaveDelayMs) * time.Millisecond
}

// ToastDuration is how long a status message stays on screen.
func (c *Config) ToastDuration() time.Duration {
	if c.ToastSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.ToastSeconds) * time.Second
}

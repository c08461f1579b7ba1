// Package dirs resolves the XDG base directories used by ttct.
package dirs

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "ttct"

// ConfigDir returns the configuration directory.
// Resolution order: XDG_CONFIG_HOME/ttct > ~/.config/ttct.
func ConfigDir() string {
	return resolve("", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the state directory holding request logs.
// Resolution order: TTCT_STATE_DIR > XDG_STATE_HOME/ttct > ~/.local/state/ttct.
func StateDir() string {
	return resolve("TTCT_STATE_DIR", "XDG_STATE_HOME", ".local", "state")
}

// DataDir returns the data directory holding the request database.
// Resolution order: TTCT_DATA_DIR > XDG_DATA_HOME/ttct > ~/.local/share/ttct.
func DataDir() string {
	return resolve("TTCT_DATA_DIR", "XDG_DATA_HOME", ".local", "share")
}

// LogsDir returns StateDir/logs.
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

// DatabasePath returns the default request database path.
func DatabasePath() string {
	return filepath.Join(DataDir(), appName+".db")
}

// Ensure creates dir and its parents with the given permissions.
func Ensure(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

func resolve(overrideVar, xdgVar string, fallback ...string) string {
	if overrideVar != "" {
		if dir := os.Getenv(overrideVar); dir != "" {
			return dir
		}
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appName)...)
}

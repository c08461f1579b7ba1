package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, 0, cfg.LatencyMs)
	assert.Equal(t, 400, cfg.AutosaveDelayMs)
	assert.Equal(t, 3, cfg.ToastSeconds)
	assert.Equal(t, "dark", cfg.UI.Style)
	assert.True(t, cfg.UI.AltScreen)
}

func TestLoadWithDirs_InstallsDefaults(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "ttct")

	cfg, err := LoadWithDirs(globalDir, "")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(globalDir, "config.yaml"))
	assert.DirExists(t, filepath.Join(globalDir, "templates"))
	assert.Equal(t, globalDir, cfg.ConfigDir())
	assert.Equal(t, "", cfg.LocalDir())
	require.NotNil(t, cfg.Templates)
	assert.Contains(t, cfg.Templates.Summary, "{{.Progress}}")
}

func TestLoadWithDirs_GlobalOnly(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(
		filepath.Join(tmpDir, "config.yaml"),
		[]byte("latency_ms: 250\ntoast_seconds: 5\n"),
		0o600,
	)
	require.NoError(t, err)

	cfg, err := LoadWithDirs(tmpDir, "")
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.LatencyMs)
	assert.Equal(t, 5, cfg.ToastSeconds)
	assert.Equal(t, 400, cfg.AutosaveDelayMs) // from embedded default
	assert.Equal(t, []string{"embedded", filepath.Join(tmpDir, "config.yaml")}, cfg.Sources())
}

func TestLoadWithDirs_LocalOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	localDir := t.TempDir()

	require.NoError(t, os.WriteFile(
		filepath.Join(globalDir, "config.yaml"),
		[]byte("latency_ms: 250\ndb_path: /tmp/global.db\nui:\n  alt_screen: true\n"),
		0o600,
	))
	// explicit zero and false must win over the global values
	require.NoError(t, os.WriteFile(
		filepath.Join(localDir, "config.yaml"),
		[]byte("latency_ms: 0\nui:\n  alt_screen: false\n  style: light\n"),
		0o600,
	))

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.LatencyMs)
	assert.True(t, cfg.LatencyMsSet)
	assert.False(t, cfg.UI.AltScreen)
	assert.Equal(t, "light", cfg.UI.Style)
	assert.Equal(t, "/tmp/global.db", cfg.DBPath)
	assert.Equal(t, localDir, cfg.LocalDir())
}

func TestLoadWithDirs_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("latency_ms: [oops\n"), 0o600))

	_, err := LoadWithDirs(tmpDir, "")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TTCT_DB_PATH", "/data/env.db")
	t.Setenv("TTCT_LATENCY_MS", "120")
	t.Setenv("TTCT_AUTOSAVE_DELAY_MS", "0")
	t.Setenv("TTCT_TOAST_SECONDS", "not-a-number")
	t.Setenv("TTCT_LOGS_DIR", "/data/logs")

	cfg := &Config{ToastSeconds: 3}
	cfg.applyEnv()

	assert.Equal(t, "/data/env.db", cfg.DBPath)
	assert.Equal(t, 120, cfg.LatencyMs)
	assert.True(t, cfg.LatencyMsSet)
	assert.Equal(t, 0, cfg.AutosaveDelayMs)
	assert.True(t, cfg.AutosaveDelayMsSet)
	assert.Equal(t, 3, cfg.ToastSeconds, "invalid numbers are ignored")
	assert.False(t, cfg.ToastSecondsSet)
	assert.Equal(t, "/data/logs", cfg.LogsDir)
	assert.Contains(t, cfg.Sources(), "env:TTCT_LATENCY_MS")
}

func TestEnvBetweenGlobalAndLocal(t *testing.T) {
	globalDir := t.TempDir()
	localDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "config.yaml"), []byte("latency_ms: 10\ntoast_seconds: 9\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "config.yaml"), []byte("toast_seconds: 1\n"), 0o600))
	t.Setenv("TTCT_LATENCY_MS", "20")
	t.Setenv("TTCT_TOAST_SECONDS", "5")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.LatencyMs, "env overrides global")
	assert.Equal(t, 1, cfg.ToastSeconds, "local overrides env")
}

func TestApplyCLIFlags(t *testing.T) {
	cfg := &Config{LatencyMs: 100, DBPath: "/a.db"}

	cfg.ApplyCLIFlags("", -1)
	assert.Equal(t, 100, cfg.LatencyMs)
	assert.Equal(t, "/a.db", cfg.DBPath)

	cfg.ApplyCLIFlags("/b.db", 0)
	assert.Equal(t, 0, cfg.LatencyMs)
	assert.Equal(t, "/b.db", cfg.DBPath)
	assert.Equal(t, []string{"cli:db", "cli:latency-ms"}, cfg.Sources())
}

func TestDerivedValues(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("TTCT_DATA_DIR", "")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("TTCT_STATE_DIR", "")

	cfg := &Config{}
	assert.Equal(t, filepath.Join("/xdg/data", "ttct", "ttct.db"), cfg.DatabasePath())
	assert.Equal(t, time.Duration(0), cfg.Latency())
	assert.Equal(t, time.Duration(0), cfg.AutosaveDelay())
	assert.Equal(t, 3*time.Second, cfg.ToastDuration())

	cfg = &Config{DBPath: "/x.db", LogsDir: "/logs", LatencyMs: 50, AutosaveDelayMs: 400, ToastSeconds: 2}
	assert.Equal(t, "/x.db", cfg.DatabasePath())
	assert.Equal(t, "/logs", cfg.LogsPath())
	assert.Equal(t, 50*time.Millisecond, cfg.Latency())
	assert.Equal(t, 400*time.Millisecond, cfg.AutosaveDelay())
	assert.Equal(t, 2*time.Second, cfg.ToastDuration())
}

func TestMarshal(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)
	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "autosave_delay_ms: 400")
	assert.NotContains(t, string(out), "set")
}

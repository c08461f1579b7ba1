package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	templates, err := LoadTemplates("", "")
	require.NoError(t, err)
	require.NotNil(t, templates)

	assert.Contains(t, templates.Summary, "{{.Title}}")
	assert.Contains(t, templates.Summary, "{{range .Rows}}")
}

func TestLoadTemplates_GlobalOverride(t *testing.T) {
	globalDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(globalDir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "templates", "summary.md"), []byte("global {{.Title}}\r\n"), 0o644))

	templates, err := LoadTemplates(globalDir, "")
	require.NoError(t, err)
	assert.Equal(t, "global {{.Title}}\n", templates.Summary)
}

func TestLoadTemplates_LocalOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	localDir := t.TempDir()
	for dir, body := range map[string]string{globalDir: "global", localDir: "local"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "summary.md"), []byte(body), 0o644))
	}

	templates, err := LoadTemplates(globalDir, localDir)
	require.NoError(t, err)
	assert.Equal(t, "local\n", templates.Summary)
}

func TestLoadTemplates_EmptyFileFallsBack(t *testing.T) {
	globalDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(globalDir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "templates", "summary.md"), []byte("  \n"), 0o644))

	templates, err := LoadTemplates(globalDir, "")
	require.NoError(t, err)
	assert.Contains(t, templates.Summary, "{{.Progress}}")
}

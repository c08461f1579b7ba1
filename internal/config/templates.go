package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/templates/*.md
var templatesFS embed.FS

// Templates holds the user-overridable text/template sources.
type Templates struct {
	Summary string // Markdown summary of a request
}

// templateLoader handles loading templates with fallback chain.
type templateLoader struct {
	embedFS embed.FS
}

// LoadTemplates loads all templates with fallback chain: local → global → embedded.
// localDir can be empty to skip local lookup.
func LoadTemplates(globalDir, localDir string) (*Templates, error) {
	loader := &templateLoader{embedFS: templatesFS}
	return loader.Load(globalDir, localDir)
}

// Load loads all template files with fallback chain: local → global → embedded.
func (l *templateLoader) Load(globalDir, localDir string) (*Templates, error) {
	var t Templates
	var err error

	t.Summary, err = l.loadWithLocalFallback(localDir, globalDir, "summary.md")
	if err != nil {
		return nil, fmt.Errorf("load summary template: %w", err)
	}

	return &t, nil
}

func (l *templateLoader) loadWithLocalFallback(localDir, globalDir, filename string) (string, error) {
	if localDir != "" {
		content, err := readTemplateFile(filepath.Join(localDir, "templates", filename))
		if err != nil {
			log.Printf("warning: failed to load local template %s: %v (falling back to global/embedded)", filename, err)
		} else if content != "" {
			return content, nil
		}
	}

	if globalDir != "" {
		content, err := readTemplateFile(filepath.Join(globalDir, "templates", filename))
		if err != nil {
			return "", err
		}
		if content != "" {
			return content, nil
		}
	}
	return l.loadFromEmbedFS("defaults/templates/" + filename)
}

// readTemplateFile returns an empty string (not an error) for a missing file.
func readTemplateFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read template file %s: %w", path, err)
	}
	return normalize(string(data)), nil
}

func (l *templateLoader) loadFromEmbedFS(path string) (string, error) {
	data, err := l.embedFS.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read embedded template %s: %w", path, err)
	}
	return normalize(string(data)), nil
}

// normalize converts CRLF line endings and trims surrounding blank lines.
func normalize(content string) string {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		return ""
	}
	return content + "\n"
}

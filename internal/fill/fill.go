// Package fill parses markdown fill files. A fill file enters the values of
// several sections at once:
//
//	# Fornitura turbine
//
//	## 3. Controparte
//	- ragioneSociale: ACME
//	- partitaIva: IT123
//
// Lines that are neither headings nor entries are notes and are ignored.
package fill

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alexander-akhmetov/ttct/internal/section"
)

// Entry is one "- key: value" line.
type Entry struct {
	Section string
	Key     string
	Value   string
	Line    int
}

// File represents a parsed fill file.
type File struct {
	// FilePath is the absolute path to the file, empty for parsed strings.
	FilePath string
	// Title is extracted from the first # heading.
	Title string
	// Entries are the field lines in file order.
	Entries []Entry
	// RawContent is the full file content.
	RawContent string
}

var (
	titleRegex   = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	sectionRegex = regexp.MustCompile(`^##\s+(\d+)[.)]?\s*(.*)$`)
	entryRegex   = regexp.MustCompile(`^[-*]\s+([A-Za-z][A-Za-z0-9_]*)\s*:\s*(.*)$`)
)

// ParseFile reads and parses a fill file from disk.
func ParseFile(filePath string) (*File, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read fill file: %w", err)
	}

	return Parse(absPath, string(content))
}

// Parse parses fill content from a string. Entries before the first section
// heading are an error.
func Parse(filePath, content string) (*File, error) {
	f := &File{
		FilePath:   filePath,
		RawContent: content,
	}

	if matches := titleRegex.FindStringSubmatch(content); len(matches) > 1 {
		f.Title = strings.TrimSpace(matches[1])
	}

	current := ""
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := sectionRegex.FindStringSubmatch(trimmed); m != nil {
			current = strings.TrimLeft(m[1], "0")
			continue
		}
		m := entryRegex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if current == "" {
			return nil, fmt.Errorf("line %d: field %q outside a section heading", i+1, m[1])
		}
		f.Entries = append(f.Entries, Entry{
			Section: current,
			Key:     m[1],
			Value:   strings.TrimSpace(m[2]),
			Line:    i + 1,
		})
	}

	return f, nil
}

// Sections returns the section ids with at least one non-empty entry, in
// order of first appearance.
func (f *File) Sections() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range f.Entries {
		if e.Value == "" || seen[e.Section] {
			continue
		}
		seen[e.Section] = true
		ids = append(ids, e.Section)
	}
	return ids
}

// Values returns the non-empty entries of section id. A key listed twice
// keeps its last value.
func (f *File) Values(id string) []Entry {
	idx := make(map[string]int)
	var out []Entry
	for _, e := range f.Entries {
		if e.Section != id || e.Value == "" {
			continue
		}
		if i, ok := idx[e.Key]; ok {
			out[i] = e
			continue
		}
		idx[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

// ID returns the file's identifier (base filename without extension).
func (f *File) ID() string {
	if f.FilePath == "" {
		return ""
	}
	base := filepath.Base(f.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Render writes a fill file for the catalog sections. values holds the
// current field values per section id; missing fields are left blank and
// choice fields list their options in a note.
func Render(title string, configs []section.Config, values map[string]map[string]string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n", title)
	}
	for _, cfg := range configs {
		if len(cfg.Fields) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s. %s\n", cfg.ID, cfg.Title)
		for _, field := range cfg.Fields {
			v := values[cfg.ID][field.Key]
			line := "- " + field.Key + ": " + v
			fmt.Fprintln(&b, strings.TrimRight(line, " "))
			if note := fieldNote(field); note != "" {
				fmt.Fprintf(&b, "  %s\n", note)
			}
		}
	}
	return b.String()
}

func fieldNote(f section.Field) string {
	var parts []string
	if f.Required {
		parts = append(parts, "obbligatorio")
	}
	if f.Kind == section.KindChoice {
		vals := make([]string, len(f.Options))
		for i, opt := range f.Options {
			vals[i] = opt.Value
		}
		parts = append(parts, strings.Join(vals, " | "))
	} else if f.Hint != "" {
		parts = append(parts, f.Hint)
	}
	if len(parts) == 0 {
		return ""
	}
	return "<!-- " + strings.Join(parts, "; ") + " -->"
}

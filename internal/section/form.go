// Package section implements the generic section controller. Every one of
// the 14 sections is the same Controller driven by a Config record from the
// catalog: the field schema, the validation predicate and the message shown
// when validation fails.
package section

import (
	"strings"

	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

// FieldKind is how a field is edited.
type FieldKind int

const (
	// KindText is a free text input.
	KindText FieldKind = iota
	// KindChoice is a single choice among fixed options.
	KindChoice
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Option is one value of a choice field.
type Option struct {
	Text        string
	Description string
	Value       string
}

// Field describes one form field.
type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []Option
	// Hint is shown as placeholder text in the terminal UI.
	Hint string
}

// OptionIndex returns the index of the option whose value is v, or -1.
func (f Field) OptionIndex(v string) int {
	for i, o := range f.Options {
		if o.Value == v {
			return i
		}
	}
	return -1
}

// Predicate decides whether a section's values are complete.
type Predicate func(values map[string]string) bool

// Config is the per-section configuration record.
type Config struct {
	ID     string
	Title  string
	Fields []Field
	// Validate is an extra predicate applied after the required-field check.
	Validate Predicate
	// ValidationMessage is shown when forward navigation is refused.
	ValidationMessage string
}

// Field returns the field with the given key.
func (c Config) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Valid reports whether values satisfy the section: every required field is
// filled, every choice holds one of its options, and the extra predicate (if
// any) passes.
func (c Config) Valid(values map[string]string) bool {
	for _, f := range c.Fields {
		v := strings.TrimSpace(values[f.Key])
		if v == "" {
			if f.Required {
				return false
			}
			continue
		}
		if f.Kind == KindChoice && f.OptionIndex(v) < 0 {
			return false
		}
	}
	if c.Validate != nil {
		return c.Validate(values)
	}
	return true
}

// Message returns the validation failure message for the section.
func (c Config) Message() string {
	if c.ValidationMessage != "" {
		return c.ValidationMessage
	}
	return protocol.MsgRequiredFields
}

// RequiredKeys lists the keys of the required fields.
func (c Config) RequiredKeys() []string {
	var keys []string
	for _, f := range c.Fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

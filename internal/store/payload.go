package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidPayload is returned when stored JSON cannot be decoded.
var ErrInvalidPayload = errors.New("invalid section payload")

// Payload is the wire shape of one section's saved data:
//
//	{"sectionId":"2","fields":{"codiceProgramma":"P1"},"complete":true,"savedAt":"..."}
type Payload struct {
	SectionID string
	Fields    map[string]string
	// Complete is true when the data passed the section's validation at
	// save time.
	Complete bool
	SavedAt  time.Time
}

// MarshalJSON encodes the payload with fields in sorted key order.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "sectionId", p.SectionID); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "fields", []byte(`{}`)); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if out, err = sjson.SetBytes(out, "fields."+escapePath(k), p.Fields[k]); err != nil {
			return nil, fmt.Errorf("set field %s: %w", k, err)
		}
	}
	if out, err = sjson.SetBytes(out, "complete", p.Complete); err != nil {
		return nil, err
	}
	if !p.SavedAt.IsZero() {
		if out, err = sjson.SetBytes(out, "savedAt", p.SavedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ParsePayload decodes a stored payload.
func ParsePayload(raw []byte) (*Payload, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: not json", ErrInvalidPayload)
	}
	doc := gjson.ParseBytes(raw)
	id := doc.Get("sectionId")
	if id.Type != gjson.String || id.String() == "" {
		return nil, fmt.Errorf("%w: missing sectionId", ErrInvalidPayload)
	}

	p := &Payload{
		SectionID: id.String(),
		Fields:    make(map[string]string),
		Complete:  doc.Get("complete").Bool(),
	}
	fields := doc.Get("fields")
	if fields.Exists() && !fields.IsObject() {
		return nil, fmt.Errorf("%w: fields must be an object", ErrInvalidPayload)
	}
	fields.ForEach(func(key, value gjson.Result) bool {
		p.Fields[key.String()] = value.String()
		return true
	})
	if ts := doc.Get("savedAt"); ts.Exists() {
		t, err := time.Parse(time.RFC3339Nano, ts.String())
		if err != nil {
			return nil, fmt.Errorf("%w: savedAt: %v", ErrInvalidPayload, err)
		}
		p.SavedAt = t
	}
	return p, nil
}

// Clone returns a deep copy.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}
	c := *p
	c.Fields = make(map[string]string, len(p.Fields))
	for k, v := range p.Fields {
		c.Fields[k] = v
	}
	return &c
}

// escapePath escapes sjson path metacharacters in a field key.
func escapePath(key string) string {
	var b []byte
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\', ':':
			b = append(b, '\\')
		}
		b = append(b, key[i])
	}
	return string(b)
}

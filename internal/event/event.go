// Package event implements the completion bus: an in-process publish/subscribe
// channel that carries typed "section completed" notifications from section
// controllers to the progress tracker.
package event

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

// ErrMalformedPayload is returned when a raw payload does not decode into a
// valid SectionCompleted message.
var ErrMalformedPayload = errors.New("malformed section completed payload")

// SectionCompleted is published when a section's data has been persisted and
// validated.
type SectionCompleted struct {
	SectionID string
	Completed bool
}

// Completed creates a SectionCompleted event with Completed set.
func Completed(sectionID string) SectionCompleted {
	return SectionCompleted{SectionID: sectionID, Completed: true}
}

// Validate checks the message shape. It does not check whether the section
// id is known; unknown ids are tolerated by subscribers.
func (e SectionCompleted) Validate() error {
	if e.SectionID == "" {
		return fmt.Errorf("%w: empty sectionId", ErrMalformedPayload)
	}
	return nil
}

// MarshalJSON encodes the message in the wire shape {sectionId, completed}.
func (e SectionCompleted) MarshalJSON() ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "sectionId", e.SectionID)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "completed", e.Completed)
}

// ParseSectionCompleted decodes a raw JSON payload, rejecting anything that
// isn't an object with a non-empty string sectionId and a boolean completed.
func ParseSectionCompleted(raw []byte) (SectionCompleted, error) {
	if !gjson.ValidBytes(raw) {
		return SectionCompleted{}, fmt.Errorf("%w: invalid json", ErrMalformedPayload)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return SectionCompleted{}, fmt.Errorf("%w: not an object", ErrMalformedPayload)
	}

	id := doc.Get("sectionId")
	if id.Type != gjson.String {
		return SectionCompleted{}, fmt.Errorf("%w: sectionId must be a string", ErrMalformedPayload)
	}
	done := doc.Get("completed")
	if done.Type != gjson.True && done.Type != gjson.False {
		return SectionCompleted{}, fmt.Errorf("%w: completed must be a boolean", ErrMalformedPayload)
	}

	msg := SectionCompleted{SectionID: id.String(), Completed: done.Bool()}
	if err := msg.Validate(); err != nil {
		return SectionCompleted{}, err
	}
	return msg, nil
}

// Handler is a callback that receives completion events.
type Handler func(SectionCompleted)

// Topic returns the channel/topic pair the bus publishes on.
func Topic() string {
	return protocol.BusChannel + "/" + protocol.TopicSectionCompleted
}

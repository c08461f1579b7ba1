// Package progress holds the request's section progress state and the
// per-session request log.
package progress

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/event"
)

// optionalSections are the sections a request may be submitted without.
var optionalSections = map[string]bool{
	"7":  true,
	"10": true,
	"11": true,
	"13": true,
}

// IsRequired reports whether section id must be completed before submission.
// Unknown ids are reported as not required.
func IsRequired(id string) bool {
	return domain.IsSectionID(id) && !optionalSections[id]
}

// SectionStatus is the dashboard status of one section.
type SectionStatus struct {
	Completed bool
	Required  bool
	IsEmpty   bool
}

// State is a point-in-time copy of the tracker.
type State struct {
	Sections          map[string]SectionStatus
	CompletedSections int
	TotalSections     int
	ProgressText      string
}

// Aggregate is the derived part of the state.
type Aggregate struct {
	CompletedSections int
	ProgressText      string
}

// FormatProgress renders the progress summary line.
func FormatProgress(completed, total int) string {
	return fmt.Sprintf("%d di %d sezioni completate", completed, total)
}

// Tracker owns the progress state of one request. All methods are safe for
// concurrent use and never fail: unknown section ids are ignored.
type Tracker struct {
	mu        sync.RWMutex
	sections  map[string]*SectionStatus
	aggregate Aggregate
}

// Initialize builds the fixed 14-section state with section 1 pre-seeded as
// completed.
func Initialize() *Tracker {
	t := &Tracker{sections: make(map[string]*SectionStatus, domain.TotalSections)}
	for _, id := range domain.SectionIDs() {
		t.sections[id] = &SectionStatus{
			Required: IsRequired(id),
			IsEmpty:  true,
		}
	}
	first := t.sections["1"]
	first.Completed = true
	first.IsEmpty = false

	t.recomputeLocked()
	return t
}

// MarkSectionCompleted flips section id to completed and non-empty, then
// recomputes the aggregate. Unknown ids are a no-op.
func (t *Tracker) MarkSectionCompleted(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sections[id]
	if !ok {
		return
	}
	s.Completed = true
	s.IsEmpty = false
	t.recomputeLocked()
}

// Restore marks every id in ids as completed. Used when a dashboard
// activates on a request that already has saved sections.
func (t *Tracker) Restore(ids []string) {
	for _, id := range ids {
		t.MarkSectionCompleted(id)
	}
}

// Recompute recounts completed sections and rebuilds the progress text.
func (t *Tracker) Recompute() Aggregate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recomputeLocked()
}

func (t *Tracker) recomputeLocked() Aggregate {
	completed := 0
	for _, s := range t.sections {
		if s.Completed {
			completed++
		}
	}
	t.aggregate = Aggregate{
		CompletedSections: completed,
		ProgressText:      FormatProgress(completed, domain.TotalSections),
	}
	return t.aggregate
}

// CanSubmit reports whether every required section is completed.
func (t *Tracker) CanSubmit() bool {
	return len(t.MissingRequired()) == 0
}

// MissingRequired returns the required sections not yet completed, in
// section order.
func (t *Tracker) MissingRequired() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var missing []string
	for id, s := range t.sections {
		if s.Required && !s.Completed {
			missing = append(missing, id)
		}
	}
	sortSectionIDs(missing)
	return missing
}

// Section returns the status of section id.
func (t *Tracker) Section(id string) (SectionStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sections[id]
	if !ok {
		return SectionStatus{}, false
	}
	return *s, true
}

// CompletedSections returns the current completed count.
func (t *Tracker) CompletedSections() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aggregate.CompletedSections
}

// ProgressText returns the current progress summary.
func (t *Tracker) ProgressText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aggregate.ProgressText
}

// Snapshot returns a copy of the full state.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sections := make(map[string]SectionStatus, len(t.sections))
	for id, s := range t.sections {
		sections[id] = *s
	}
	return State{
		Sections:          sections,
		CompletedSections: t.aggregate.CompletedSections,
		TotalSections:     domain.TotalSections,
		ProgressText:      t.aggregate.ProgressText,
	}
}

// Attach subscribes the tracker to completion events on bus. The returned
// subscription must be released when the owning dashboard deactivates.
func (t *Tracker) Attach(bus *event.Bus) *event.Subscription {
	return bus.Subscribe(func(e event.SectionCompleted) {
		if !e.Completed {
			// completion is monotonic
			return
		}
		t.MarkSectionCompleted(e.SectionID)
	})
}

func sortSectionIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, _ := domain.SectionNumber(ids[i])
		b, _ := domain.SectionNumber(ids[j])
		return a < b
	})
}

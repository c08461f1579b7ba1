package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexander-akhmetov/ttct/internal/event"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

var (
	// ErrNotActive is returned by dashboard actions before Activate.
	ErrNotActive = errors.New("dashboard not active")
	// ErrSubmitBlocked is returned when required sections are missing.
	ErrSubmitBlocked = errors.New("required sections not completed")
)

// Dashboard is the controller of the request overview. It owns the
// progress tracker for as long as it is active.
type Dashboard struct {
	s *Session

	mu      sync.Mutex
	tracker *progress.Tracker
	subs    []*event.Subscription
}

// NewDashboard creates an inactive dashboard.
func NewDashboard(s *Session) *Dashboard {
	return &Dashboard{s: s}
}

// Activate builds a fresh tracker, restores completion saved in the store
// and subscribes to the completion bus. Activating an active dashboard
// replaces its tracker. A store error is returned but leaves the dashboard
// active with only section 1 completed.
func (d *Dashboard) Activate(ctx context.Context) error {
	tracker := progress.Initialize()

	var restoreErr error
	if d.s.Store != nil {
		ids, err := store.CompletedSections(ctx, d.s.Store, d.s.RequestID)
		if err != nil {
			restoreErr = fmt.Errorf("restore progress: %w", err)
			d.s.Log.Errorf("restore progress: %v", err)
		} else {
			tracker.Restore(ids)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked()
	d.tracker = tracker
	d.subs = append(d.subs, tracker.Attach(d.s.Bus))
	d.subs = append(d.subs, d.s.Bus.Subscribe(func(e event.SectionCompleted) {
		d.s.Log.SectionCompleted(e.SectionID, tracker.ProgressText())
	}))
	return restoreErr
}

// Deactivate releases the bus subscriptions. Safe to call repeatedly.
func (d *Dashboard) Deactivate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked()
}

func (d *Dashboard) releaseLocked() {
	for _, sub := range d.subs {
		sub.Release()
	}
	d.subs = nil
}

// Active reports whether the dashboard is subscribed to the bus.
func (d *Dashboard) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs) > 0
}

// Tracker returns the current tracker, nil before the first Activate.
func (d *Dashboard) Tracker() *progress.Tracker {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker
}

// OnSectionPress opens section id.
func (d *Dashboard) OnSectionPress(id string) error {
	return d.s.Gateway.NavigateTo(id)
}

// OnSaveDraft records that the request was saved as a draft. Section data
// is already persisted by the section controllers.
func (d *Dashboard) OnSaveDraft(ctx context.Context) error {
	if d.s.Store == nil {
		d.s.notify(protocol.MsgSaveError)
		return store.ErrNotFound
	}
	if err := d.s.Store.TouchRequest(ctx, d.s.RequestID); err != nil {
		d.s.Log.Errorf("save draft: %v", err)
		d.s.notify(protocol.MsgSaveError)
		return fmt.Errorf("save draft: %w", err)
	}
	d.s.Log.Printf("Draft saved")
	d.s.notify(protocol.MsgDraftSaved)
	return nil
}

// OnSubmitToTC submits the request once every required section is
// completed. A blocked submission changes nothing.
func (d *Dashboard) OnSubmitToTC(ctx context.Context) error {
	tracker := d.Tracker()
	if tracker == nil {
		d.s.notify(protocol.MsgNotReady)
		return ErrNotActive
	}
	if missing := tracker.MissingRequired(); len(missing) > 0 {
		d.s.Log.SubmitBlocked(missing)
		d.s.notify(protocol.MsgSubmitBlocked)
		return fmt.Errorf("%w: %s", ErrSubmitBlocked, strings.Join(missing, ", "))
	}
	if d.s.Store == nil {
		d.s.notify(protocol.MsgSubmitError)
		return store.ErrNotFound
	}

	snapshot, err := store.BuildSnapshot(ctx, d.s.Store, d.s.RequestID)
	if err == nil {
		err = d.s.Store.SubmitRequest(ctx, d.s.RequestID, string(snapshot))
	}
	if err != nil {
		d.s.Log.Errorf("submit: %v", err)
		d.s.notify(protocol.MsgSubmitError)
		return fmt.Errorf("submit request: %w", err)
	}

	d.s.Log.Submitted(tracker.ProgressText())
	d.s.notify(protocol.MsgSubmitted)
	return nil
}

// OnNavBack returns to the dashboard route.
func (d *Dashboard) OnNavBack() error {
	return d.s.Gateway.Back()
}

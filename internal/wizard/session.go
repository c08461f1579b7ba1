// Package wizard wires the collaborators of one request editing session and
// implements the dashboard controller.
package wizard

import (
	"github.com/alexander-akhmetov/ttct/internal/event"
	"github.com/alexander-akhmetov/ttct/internal/nav"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

// Session is the context object shared by the dashboard and the section
// controllers of one request. Nothing in it is global: two sessions never
// see each other's completions.
type Session struct {
	RequestID string
	Store     store.Store
	Bus       *event.Bus
	Gateway   *nav.Gateway
	Notifier  nav.Notifier
	Log       *progress.Logger

	// AutoSave is passed to every section controller.
	AutoSave func(c *section.Controller)
}

// NewSession builds a session with its own completion bus. router and
// notifier may be nil; log may be nil.
func NewSession(requestID string, st store.Store, router nav.Router, notifier nav.Notifier, log *progress.Logger) *Session {
	gw := nav.NewGateway(router, notifier)
	gw.SetObserver(log.Navigation)
	return &Session{
		RequestID: requestID,
		Store:     st,
		Bus:       event.NewBus(),
		Gateway:   gw,
		Notifier:  notifier,
		Log:       log,
	}
}

// SectionDeps returns the collaborators for a section controller.
func (s *Session) SectionDeps() section.Deps {
	return section.Deps{
		RequestID: s.RequestID,
		Store:     s.Store,
		Bus:       s.Bus,
		Gateway:   s.Gateway,
		Notifier:  s.Notifier,
		Log:       s.Log,
		AutoSave:  s.AutoSave,
	}
}

// NewSection creates the controller of section id.
func (s *Session) NewSection(id string) (*section.Controller, error) {
	return section.NewForSection(id, s.SectionDeps())
}

func (s *Session) notify(msg string) {
	if s.Notifier != nil {
		s.Notifier.Show(msg)
	}
}

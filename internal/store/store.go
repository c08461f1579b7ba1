// Package store persists negotiation requests and their section payloads.
// The wizard only depends on the Store interface; SQLite backs the CLI and
// TUI, the memory store backs tests and --memory sessions.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/domain"
)

// ErrNotFound is returned when a request does not exist.
var ErrNotFound = errors.New("request not found")

// SavedSection summarizes a persisted section.
type SavedSection struct {
	SectionID string
	Complete  bool
	SavedAt   time.Time
}

// Store is the persistence collaborator.
type Store interface {
	// CreateRequest creates a new draft request with a fresh id.
	CreateRequest(ctx context.Context, title string) (*domain.Request, error)
	// GetRequest returns the request or ErrNotFound.
	GetRequest(ctx context.Context, id string) (*domain.Request, error)
	// ListRequests returns all requests, most recently updated first.
	ListRequests(ctx context.Context) ([]domain.Request, error)
	// TouchRequest bumps the request's updated timestamp (draft save).
	TouchRequest(ctx context.Context, id string) error
	// SubmitRequest marks the request submitted and stores the snapshot.
	SubmitRequest(ctx context.Context, id, snapshot string) error

	// SaveSectionData creates or replaces a section payload.
	SaveSectionData(ctx context.Context, requestID string, p Payload) error
	// LoadSectionData returns the saved payload, or nil if the section was
	// never saved.
	LoadSectionData(ctx context.Context, requestID, sectionID string) (*Payload, error)
	// SavedSections lists persisted sections in section order.
	SavedSections(ctx context.Context, requestID string) ([]SavedSection, error)

	Close() error
}

// CompletedSections returns the ids of sections saved with valid data.
func CompletedSections(ctx context.Context, s Store, requestID string) ([]string, error) {
	saved, err := s.SavedSections(ctx, requestID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, sec := range saved {
		if sec.Complete {
			ids = append(ids, sec.SectionID)
		}
	}
	return ids, nil
}

// now returns UTC time truncated to milliseconds, the precision stored.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func sortByUpdated(reqs []domain.Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].UpdatedAt.After(reqs[j].UpdatedAt)
	})
}

func validateSection(id string) error {
	if !domain.IsSectionID(id) {
		return errors.New("unknown section " + id)
	}
	return nil
}

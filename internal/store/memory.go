package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

// Memory is an in-process Store. Nothing survives the process.
type Memory struct {
	mu       sync.Mutex
	requests map[string]*domain.Request
	sections map[string]map[string]*Payload
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{
		requests: make(map[string]*domain.Request),
		sections: make(map[string]map[string]*Payload),
	}
}

func (m *Memory) CreateRequest(_ context.Context, title string) (*domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := now()
	req := &domain.Request{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    protocol.RequestDraft,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	m.requests[req.ID] = req
	m.sections[req.ID] = make(map[string]*Payload)
	c := *req
	return &c, nil
}

func (m *Memory) GetRequest(_ context.Context, id string) (*domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := *req
	return &c, nil
}

func (m *Memory) ListRequests(_ context.Context) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Request, 0, len(m.requests))
	for _, req := range m.requests {
		out = append(out, *req)
	}
	sortByUpdated(out)
	return out, nil
}

func (m *Memory) TouchRequest(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	req.UpdatedAt = now()
	return nil
}

func (m *Memory) SubmitRequest(_ context.Context, id, snapshot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	ts := now()
	req.Status = protocol.RequestSubmitted
	req.SubmittedAt = &ts
	req.SubmittedSnapshot = snapshot
	req.UpdatedAt = ts
	return nil
}

func (m *Memory) SaveSectionData(ctx context.Context, requestID string, p Payload) error {
	if err := validateSection(p.SectionID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[requestID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, requestID)
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = now()
	}
	m.sections[requestID][p.SectionID] = p.Clone()
	req.UpdatedAt = p.SavedAt
	return nil
}

func (m *Memory) LoadSectionData(ctx context.Context, requestID, sectionID string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sections[requestID][sectionID].Clone(), nil
}

func (m *Memory) SavedSections(_ context.Context, requestID string) ([]SavedSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := make(map[string]SavedSection)
	for id, p := range m.sections[requestID] {
		byID[id] = SavedSection{SectionID: id, Complete: p.Complete, SavedAt: p.SavedAt}
	}
	return inSectionOrder(byID), nil
}

func (m *Memory) Close() error { return nil }

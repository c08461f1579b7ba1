package store

import (
	"context"
	"sync"

	"github.com/alexander-akhmetov/ttct/internal/domain"
)

// MockStore implements Store for testing. Unset Func hooks delegate to an
// embedded memory store, so a bare MockStore behaves like a working backend.
type MockStore struct {
	mu      sync.Mutex
	backing *Memory

	SaveSectionDataFunc func(ctx context.Context, requestID string, p Payload) error
	LoadSectionDataFunc func(ctx context.Context, requestID, sectionID string) (*Payload, error)
	SubmitRequestFunc   func(ctx context.Context, id, snapshot string) error
	TouchRequestFunc    func(ctx context.Context, id string) error

	SaveCalls   []Payload
	LoadCalls   []string
	SubmitCalls []string
	TouchCalls  []string
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{backing: NewMemory()}
}

func (m *MockStore) CreateRequest(ctx context.Context, title string) (*domain.Request, error) {
	return m.backing.CreateRequest(ctx, title)
}

func (m *MockStore) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	return m.backing.GetRequest(ctx, id)
}

func (m *MockStore) ListRequests(ctx context.Context) ([]domain.Request, error) {
	return m.backing.ListRequests(ctx)
}

func (m *MockStore) TouchRequest(ctx context.Context, id string) error {
	m.mu.Lock()
	m.TouchCalls = append(m.TouchCalls, id)
	f := m.TouchRequestFunc
	m.mu.Unlock()

	if f != nil {
		return f(ctx, id)
	}
	return m.backing.TouchRequest(ctx, id)
}

func (m *MockStore) SubmitRequest(ctx context.Context, id, snapshot string) error {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, id)
	f := m.SubmitRequestFunc
	m.mu.Unlock()

	if f != nil {
		return f(ctx, id, snapshot)
	}
	return m.backing.SubmitRequest(ctx, id, snapshot)
}

func (m *MockStore) SaveSectionData(ctx context.Context, requestID string, p Payload) error {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, *p.Clone())
	f := m.SaveSectionDataFunc
	m.mu.Unlock()

	if f != nil {
		return f(ctx, requestID, p)
	}
	return m.backing.SaveSectionData(ctx, requestID, p)
}

func (m *MockStore) LoadSectionData(ctx context.Context, requestID, sectionID string) (*Payload, error) {
	m.mu.Lock()
	m.LoadCalls = append(m.LoadCalls, sectionID)
	f := m.LoadSectionDataFunc
	m.mu.Unlock()

	if f != nil {
		return f(ctx, requestID, sectionID)
	}
	return m.backing.LoadSectionData(ctx, requestID, sectionID)
}

func (m *MockStore) SavedSections(ctx context.Context, requestID string) ([]SavedSection, error) {
	return m.backing.SavedSections(ctx, requestID)
}

func (m *MockStore) Close() error { return nil }

// SaveCount returns the number of SaveSectionData calls so far.
func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SaveCalls)
}

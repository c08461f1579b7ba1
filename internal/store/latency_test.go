package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLatencyZeroIsPassthrough(t *testing.T) {
	m := NewMemory()
	assert.Same(t, Store(m), WithLatency(m, 0))
}

func TestDelayedSave(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	s := WithLatency(m, 20*time.Millisecond)

	req, err := s.CreateRequest(ctx, "")
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, s.SaveSectionData(ctx, req.ID, Payload{SectionID: "1", Fields: map[string]string{"selectedTipologia": "NUOVA"}}))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	p, err := m.LoadSectionData(ctx, req.ID, "1")
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestDelayedSaveCancelled(t *testing.T) {
	m := NewMemory()
	s := WithLatency(m, time.Second)

	req, err := s.CreateRequest(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.SaveSectionData(ctx, req.ID, Payload{SectionID: "1"})
	assert.ErrorIs(t, err, context.Canceled)

	p, err := m.LoadSectionData(context.Background(), req.ID, "1")
	require.NoError(t, err)
	assert.Nil(t, p, "cancelled save must not reach the store")
}

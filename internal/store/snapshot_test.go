package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestBuildSnapshot(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	req, err := m.CreateRequest(ctx, "Fornitura")
	require.NoError(t, err)

	require.NoError(t, m.SaveSectionData(ctx, req.ID, Payload{SectionID: "2", Fields: map[string]string{"nomeProgramma": "Alpha", "codiceProgramma": "P1"}, Complete: true}))
	require.NoError(t, m.SaveSectionData(ctx, req.ID, Payload{SectionID: "1", Fields: map[string]string{"selectedTipologia": "NUOVA"}, Complete: true}))

	snap, err := BuildSnapshot(ctx, m, req.ID)
	require.NoError(t, err)

	doc := gjson.ParseBytes(snap)
	assert.Equal(t, req.ID, doc.Get("requestId").String())
	assert.Equal(t, "draft", doc.Get("status").String())
	assert.Equal(t, "NUOVA", doc.Get("sections.1.fields.selectedTipologia").String())
	assert.Equal(t, "Alpha", doc.Get("sections.2.fields.nomeProgramma").String())
	assert.False(t, doc.Get("sections.2.savedAt").Exists())
	assert.False(t, doc.Get("sections.3").Exists())

	again, err := BuildSnapshot(ctx, m, req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(snap), string(again), "snapshots are deterministic")
}

func TestBuildSnapshotMissingRequest(t *testing.T) {
	_, err := BuildSnapshot(context.Background(), NewMemory(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPretty(t *testing.T) {
	out := Pretty([]byte(`{"b":1,"a":2}`))
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}\n", string(out))
}

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusIsValid(t *testing.T) {
	tests := []struct {
		status RequestStatus
		valid  bool
	}{
		{RequestDraft, true},
		{RequestSubmitted, true},
		{RequestStatus("archived"), false},
		{RequestStatus(""), false},
	}
	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.status.IsValid())
		})
	}
}

func TestSectionRoute(t *testing.T) {
	assert.Equal(t, "section1", SectionRoute("1"))
	assert.Equal(t, "section14", SectionRoute("14"))
}

func TestSectionFromRoute(t *testing.T) {
	tests := []struct {
		route  string
		wantID string
		wantOK bool
	}{
		{"section3", "3", true},
		{"section14", "14", true},
		{"dashboard", "", false},
		{"section", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.route, func(t *testing.T) {
			id, ok := SectionFromRoute(tc.route)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Sezione 99 non ancora implementata", MsgSectionNotImplemented("99"))
	assert.Equal(t, "Sezione 2 salvata in bozza", MsgSectionDraftSaved("2"))
	assert.Equal(t, "Selezionato: Nuova richiesta", MsgSelected("Nuova richiesta"))
	assert.Equal(t, "Errore nella navigazione alla sezione 4", MsgNavigationError("4"))
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "ttct", BusChannel)
	assert.Equal(t, "sectionCompleted", TopicSectionCompleted)
	assert.Equal(t, "dashboard", RouteDashboard)
}

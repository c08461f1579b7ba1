package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleted(t *testing.T) {
	e := Completed("3")
	assert.Equal(t, "3", e.SectionID)
	assert.True(t, e.Completed)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Completed("1").Validate())
	require.NoError(t, Completed("99").Validate(), "unknown ids are a subscriber concern")
	assert.ErrorIs(t, SectionCompleted{}.Validate(), ErrMalformedPayload)
}

func TestMarshalJSON(t *testing.T) {
	data, err := Completed("1").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"sectionId":"1","completed":true}`, string(data))
}

func TestParseSectionCompleted(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SectionCompleted
		wantErr bool
	}{
		{name: "valid", raw: `{"sectionId":"2","completed":true}`, want: SectionCompleted{SectionID: "2", Completed: true}},
		{name: "completed false", raw: `{"sectionId":"2","completed":false}`, want: SectionCompleted{SectionID: "2"}},
		{name: "numeric id", raw: `{"sectionId":2,"completed":true}`, wantErr: true},
		{name: "string completed", raw: `{"sectionId":"2","completed":"true"}`, wantErr: true},
		{name: "missing completed", raw: `{"sectionId":"2"}`, wantErr: true},
		{name: "empty id", raw: `{"sectionId":"","completed":true}`, wantErr: true},
		{name: "array", raw: `["2",true]`, wantErr: true},
		{name: "not json", raw: `sectionId=2`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSectionCompleted([]byte(tc.raw))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	data, err := Completed("14").MarshalJSON()
	require.NoError(t, err)
	got, err := ParseSectionCompleted(data)
	require.NoError(t, err)
	assert.Equal(t, Completed("14"), got)
}

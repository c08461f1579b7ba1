package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

const testTemplate = `# {{.Title}}
{{.Progress}}
{{range .Rows}}| {{.ID}} | {{.Title}} | {{.Status}} | {{.Data}} |
{{end}}`

func TestSummary(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	req, err := st.CreateRequest(ctx, "Fornitura turbine")
	require.NoError(t, err)
	require.NoError(t, st.SaveSectionData(ctx, req.ID, store.Payload{
		SectionID: "2",
		Fields:    map[string]string{"codiceProgramma": "P|1", "nomeProgramma": "Alpha"},
		Complete:  true,
	}))

	tr := progress.Initialize()
	tr.MarkSectionCompleted("2")

	md, err := Summary(ctx, st, req.ID, tr.Snapshot(), testTemplate)
	require.NoError(t, err)

	assert.Contains(t, md, "# Fornitura turbine")
	assert.Contains(t, md, "2 di 14 sezioni completate")
	assert.Contains(t, md, "| 2 | Programma | completata | Codice programma: P\\|1; Nome programma: Alpha |")
	assert.Contains(t, md, "| 3 | Controparte | obbligatoria | - |")
	assert.Contains(t, md, "| 7 | Allegati | facoltativa | - |")
}

func TestBuildSummaryUntitled(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	req, err := st.CreateRequest(ctx, "")
	require.NoError(t, err)

	data, err := BuildSummary(ctx, st, req.ID, progress.Initialize().Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "Richiesta "+req.ShortID(), data.Title)
	assert.Equal(t, "draft", data.Status)
	assert.Len(t, data.Rows, 14)
	assert.Equal(t, "completata", data.Rows[0].Status)
}

func TestRenderSummaryErrors(t *testing.T) {
	_, err := RenderSummary("  ", &SummaryData{})
	assert.Error(t, err)

	_, err = RenderSummary("{{.Nope", &SummaryData{})
	assert.Error(t, err)

	_, err = RenderSummary("{{.Missing}}", &SummaryData{})
	assert.Error(t, err)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "completata", StatusLabel(progress.SectionStatus{Completed: true, Required: true}))
	assert.Equal(t, "obbligatoria", StatusLabel(progress.SectionStatus{Required: true}))
	assert.Equal(t, "facoltativa", StatusLabel(progress.SectionStatus{}))
}

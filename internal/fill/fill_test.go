package fill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/ttct/internal/section"
)

func TestParse_Basic(t *testing.T) {
	content := `# Fornitura turbine

Note libere sulla richiesta.

## 3. Controparte
- ragioneSociale: ACME S.p.A.
- partitaIva: IT123
  <!-- obbligatorio -->

## 04 Oggetto del contratto
* categoria: BENI
- descrizione: Turbine: modello X
`

	f, err := Parse("/tmp/fill.md", content)
	require.NoError(t, err)

	assert.Equal(t, "Fornitura turbine", f.Title)
	require.Len(t, f.Entries, 4)
	assert.Equal(t, Entry{Section: "3", Key: "ragioneSociale", Value: "ACME S.p.A.", Line: 6}, f.Entries[0])
	assert.Equal(t, "4", f.Entries[2].Section)
	assert.Equal(t, "Turbine: modello X", f.Entries[3].Value)
	assert.Equal(t, []string{"3", "4"}, f.Sections())
}

func TestParse_EntryOutsideSection(t *testing.T) {
	_, err := Parse("", "# Titolo\n- ragioneSociale: ACME\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParse_SectionHeadingVariants(t *testing.T) {
	content := "## 5) Valore\n- importo: 10\n## 6\n- dataInizio: 2026-01-01\n"
	f, err := Parse("", content)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "6"}, f.Sections())
	assert.Empty(t, f.Title)
}

func TestValues(t *testing.T) {
	content := `## 2. Programma
- codiceProgramma: P1
- nomeProgramma:
- codiceProgramma: P2
## 3. Controparte
- paese: Italia
`
	f, err := Parse("", content)
	require.NoError(t, err)

	vals := f.Values("2")
	require.Len(t, vals, 1)
	assert.Equal(t, "P2", vals[0].Value)
	assert.Equal(t, 4, vals[0].Line)
	assert.Empty(t, f.Values("9"))
}

func TestSections_SkipsBlankOnly(t *testing.T) {
	f, err := Parse("", "## 7. Note\n- note:\n## 8\n- termini: 30 giorni\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"8"}, f.Sections())
}

func TestFileID(t *testing.T) {
	f := &File{FilePath: "/tmp/richiesta-42.md"}
	assert.Equal(t, "richiesta-42", f.ID())
	assert.Empty(t, (&File{}).ID())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "richiesta.md")
	require.NoError(t, os.WriteFile(path, []byte("## 2\n- codiceProgramma: P1\n"), 0644))

	f, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.FilePath)
	assert.Len(t, f.Entries, 1)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile("/nonexistent/path/fill.md")
	assert.Error(t, err)
}

func TestRender_RoundTrip(t *testing.T) {
	values := map[string]map[string]string{
		"3": {"ragioneSociale": "ACME", "paese": "Italia"},
		"4": {"categoria": "SERVIZI"},
	}
	out := Render("Fornitura", section.Catalog(), values)

	assert.Contains(t, out, "# Fornitura\n")
	assert.Contains(t, out, "## 3. Controparte\n- ragioneSociale: ACME\n")
	assert.Contains(t, out, "- partitaIva:\n")
	assert.Contains(t, out, "<!-- obbligatorio; BENI | SERVIZI | MISTO -->")

	f, err := Parse("", out)
	require.NoError(t, err)
	assert.Equal(t, "Fornitura", f.Title)
	assert.Equal(t, []string{"3", "4"}, f.Sections())
	assert.Len(t, f.Values("3"), 2)
}

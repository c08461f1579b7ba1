package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

// SummaryData is the input of the summary template.
type SummaryData struct {
	RequestID string
	Title     string
	Status    string
	Progress  string
	Rows      []SummaryRow
}

// SummaryRow describes one section in the summary.
type SummaryRow struct {
	ID     string
	Title  string
	Status string
	// Data lists the saved values as "Label: value" pairs, or "-".
	Data string
}

// BuildSummary collects the data rendered by the summary template.
func BuildSummary(ctx context.Context, st store.Store, requestID string, state progress.State) (*SummaryData, error) {
	req, err := st.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	data := &SummaryData{
		RequestID: req.ID,
		Title:     req.Title,
		Status:    req.Status.String(),
		Progress:  state.ProgressText,
	}
	if data.Title == "" {
		data.Title = "Richiesta " + req.ShortID()
	}
	for _, cfg := range section.Catalog() {
		p, err := st.LoadSectionData(ctx, requestID, cfg.ID)
		if err != nil {
			return nil, fmt.Errorf("load section %s: %w", cfg.ID, err)
		}
		data.Rows = append(data.Rows, SummaryRow{
			ID:     cfg.ID,
			Title:  cfg.Title,
			Status: StatusLabel(state.Sections[cfg.ID]),
			Data:   fieldsCell(cfg, p),
		})
	}
	return data, nil
}

// RenderSummary executes a text/template over data.
func RenderSummary(tmpl string, data *SummaryData) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		return "", errors.New("empty summary template")
	}
	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse summary template: %w", err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return b.String(), nil
}

// Summary builds and renders the markdown summary of a request.
func Summary(ctx context.Context, st store.Store, requestID string, state progress.State, tmpl string) (string, error) {
	data, err := BuildSummary(ctx, st, requestID, state)
	if err != nil {
		return "", err
	}
	return RenderSummary(tmpl, data)
}

// StatusLabel is the short dashboard label for a section status.
func StatusLabel(s progress.SectionStatus) string {
	switch {
	case s.Completed:
		return "completata"
	case s.Required:
		return "obbligatoria"
	default:
		return "facoltativa"
	}
}

func fieldsCell(cfg section.Config, p *store.Payload) string {
	if p == nil {
		return "-"
	}
	var parts []string
	for _, f := range cfg.Fields {
		v := p.Fields[f.Key]
		if v == "" {
			continue
		}
		parts = append(parts, f.Label+": "+strings.ReplaceAll(v, "|", "\\|"))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

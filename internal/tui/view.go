package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Initializing..."
	}

	var body string
	switch m.screen {
	case screenSection:
		body = m.renderSection()
	case screenSummary:
		body = m.renderSummary()
	default:
		body = m.renderDashboard()
	}

	width := max(40, m.width-2)
	return boxStyle.Width(width).Render(body) + "\n" + m.renderStatusLine() + "\n" + m.renderHelp()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TRATTATIVE CONTRATTUALI"))
	b.WriteString("\n")
	if m.request != nil {
		title := m.request.Title
		if title == "" {
			title = m.request.ShortID()
		}
		b.WriteString(labelStyle.Render("Richiesta: "))
		b.WriteString(valueStyle.Render(title))
		if m.request.IsSubmitted() {
			b.WriteString("  ")
			b.WriteString(submittedStyle.Render("inviata"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())

	tracker := m.dashboard.Tracker()
	if tracker == nil {
		b.WriteString(labelStyle.Render("Caricamento avanzamento..."))
		return b.String()
	}
	state := tracker.Snapshot()

	percent := float64(state.CompletedSections) / float64(state.TotalSections)
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(state.ProgressText))
	b.WriteString("\n\n")

	for i, cfg := range section.Catalog() {
		b.WriteString(m.renderDashboardRow(i, cfg, state.Sections[cfg.ID]))
		b.WriteString("\n")
	}

	if missing := tracker.MissingRequired(); len(missing) > 0 {
		b.WriteString("\n")
		b.WriteString(requiredStyle.Render("Sezioni obbligatorie mancanti: " + strings.Join(missing, ", ")))
	}
	return b.String()
}

func (m Model) renderDashboardRow(i int, cfg section.Config, st progress.SectionStatus) string {
	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}

	var mark string
	switch {
	case st.Completed:
		mark = completedStyle.Render("✓")
	case st.Required:
		mark = requiredStyle.Render("●")
	default:
		mark = optionalStyle.Render("○")
	}

	name := fmt.Sprintf("%2s. %s", cfg.ID, cfg.Title)
	if i == m.cursor {
		name = cursorStyle.Render(name)
	} else {
		name = valueStyle.Render(name)
	}
	return pointer + mark + " " + name + " " + labelStyle.Render("("+wizard.StatusLabel(st)+")")
}

func (m Model) renderSection() string {
	c := m.current
	if c == nil {
		return ""
	}
	cfg := c.Config()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(cursorStyle.Render(fmt.Sprintf("Sezione %s di %d · %s", cfg.ID, domain.TotalSections, cfg.Title)))
	b.WriteString("\n\n")

	for i, f := range cfg.Fields {
		b.WriteString(m.renderField(c, i, f))
		b.WriteString("\n")
	}

	if c.ShowValidationError() {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(cfg.Message()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderField(c *section.Controller, i int, f section.Field) string {
	var b strings.Builder
	label := f.Label
	if f.Required {
		label += " *"
	}
	if i == m.focus {
		b.WriteString(cursorStyle.Render("> " + label))
	} else {
		b.WriteString(labelStyle.Render("  " + label))
	}
	b.WriteString("\n")

	if f.Kind == section.KindChoice {
		selected := c.SelectedIndex(f.Key)
		for idx, opt := range f.Options {
			radio := "( )"
			if idx == selected {
				radio = "(•)"
			}
			line := "    " + radio + " " + opt.Text
			if idx == selected {
				b.WriteString(valueStyle.Render(line))
			} else {
				b.WriteString(labelStyle.Render(line))
			}
			if opt.Description != "" {
				b.WriteString("  ")
				b.WriteString(descStyle.Render(opt.Description))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	if in, ok := m.inputs[f.Key]; ok {
		b.WriteString("    ")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSummary() string {
	return m.renderHeader() + m.summary.View()
}

func (m Model) renderStatusLine() string {
	var parts []string
	if m.saving > 0 {
		parts = append(parts, m.spinner.View()+" Salvataggio...")
	}
	if m.toast != "" {
		parts = append(parts, toastStyle.Render(m.toast))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}

func (m Model) renderHelp() string {
	var help string
	switch m.screen {
	case screenSection:
		help = "tab: campo  ←/→: scelta  enter: avanti  ctrl+n/ctrl+p: sezione  ctrl+s: bozza  ctrl+t: invia  esc: dashboard"
	case screenSummary:
		help = "↑/↓: scorri  esc: dashboard  q: esci"
	default:
		help = "↑/↓: sezione  enter: apri  s: salva bozza  i: invia a TC  v: riepilogo  q: esci"
	}
	return helpStyle.Render(help)
}

package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/ttct/internal/debug"
	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/timing"
	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

func createRendererCmd(width int, style string) tea.Cmd {
	return func() tea.Msg {
		wrap := max(width-6, 40)
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			debug.Logf("tui: failed to create glamour renderer: %v", err)
		}
		return rendererReadyMsg{renderer: renderer}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize(), m.activateCmd(), m.loadRequestCmd())
}

func (m Model) activateCmd() tea.Cmd {
	d := m.dashboard
	ctx := m.ctx
	return func() tea.Msg {
		return activatedMsg{err: d.Activate(ctx)}
	}
}

func (m Model) loadRequestCmd() tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		if s.Store == nil {
			return requestMsg{}
		}
		req, err := s.Store.GetRequest(ctx, s.RequestID)
		return requestMsg{request: req, err: err}
	}
}

// action runs a controller call off the loop. Controllers report through
// the bridge; the returned message only carries the error. busy actions
// show the spinner until they finish.
func (m Model) action(busy, reload bool, f func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: f(ctx), busy: busy, reloadRequest: reload}
	}
}

func (m Model) saveCmd(c *section.Controller) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return saveDoneMsg{id: c.ID(), err: c.Save(ctx)}
	}
}

func (m Model) summaryCmd() tea.Cmd {
	s := m.session
	ctx := m.ctx
	tmpl := m.settings.SummaryTemplate
	tracker := m.dashboard.Tracker()
	return func() tea.Msg {
		if tracker == nil {
			return summaryMsg{err: wizard.ErrNotActive}
		}
		md, err := wizard.Summary(ctx, s.Store, s.RequestID, tracker.Snapshot(), tmpl)
		return summaryMsg{markdown: md, err: err}
	}
}

func (m Model) toastExpiry() tea.Cmd {
	seq := m.toastSeq
	return tea.Tick(m.settings.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		timing.Log("Update: WindowSizeMsg received")
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(20, min(60, m.width-10))
		summaryHeight := max(5, m.height-6)
		if !m.ready {
			m.summary = viewport.New(m.width-4, summaryHeight)
			m.ready = true
			cmds = append(cmds, createRendererCmd(m.width, m.settings.Style))
		} else {
			m.summary.Width = m.width - 4
			m.summary.Height = summaryHeight
		}
		m.refreshSummary()

	case rendererReadyMsg:
		timing.Log("Update: rendererReadyMsg received")
		m.renderer = msg.renderer
		m.refreshSummary()

	case activatedMsg:
		if msg.err != nil {
			debug.Logf("tui: dashboard activation: %v", msg.err)
			m.lastErr = msg.err
		}

	case requestMsg:
		if msg.err != nil {
			m.lastErr = msg.err
		} else if msg.request != nil {
			m.request = msg.request
		}

	case NavigateMsg:
		return m.navigate(msg.Route)

	case ToastMsg:
		m.toast = msg.Text
		m.toastSeq++
		cmds = append(cmds, m.toastExpiry())

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}

	case sectionLoadedMsg:
		if msg.err != nil {
			debug.Logf("tui: load section %s: %v", msg.id, msg.err)
		}
		if m.current != nil && m.current.ID() == msg.id {
			m.syncInputs()
		}

	case autosaveRequestMsg:
		c, ok := m.sections[msg.id]
		if !ok {
			break
		}
		m.autosaveSeq[msg.id]++
		if m.settings.AutosaveDelay <= 0 {
			m.saving++
			cmds = append(cmds, m.saveCmd(c))
			break
		}
		id, seq := msg.id, m.autosaveSeq[msg.id]
		cmds = append(cmds, tea.Tick(m.settings.AutosaveDelay, func(time.Time) tea.Msg {
			return autosaveTickMsg{id: id, seq: seq}
		}))

	case autosaveTickMsg:
		if msg.seq != m.autosaveSeq[msg.id] {
			break
		}
		if c, ok := m.sections[msg.id]; ok {
			m.saving++
			cmds = append(cmds, m.saveCmd(c))
		}

	case saveDoneMsg:
		m.saving = max(0, m.saving-1)
		if msg.err != nil && !errors.Is(msg.err, section.ErrSuperseded) {
			m.lastErr = msg.err
			m.toast = protocol.MsgSaveError
			m.toastSeq++
			cmds = append(cmds, m.toastExpiry())
		}

	case actionDoneMsg:
		if msg.busy {
			m.saving = max(0, m.saving-1)
		}
		if msg.err != nil {
			debug.Logf("tui: action: %v", msg.err)
		}
		if msg.reloadRequest {
			cmds = append(cmds, m.loadRequestCmd())
		}

	case summaryMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.summaryText = msg.err.Error()
		} else {
			m.summaryText = msg.markdown
		}
		m.refreshSummary()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.screen {
	case screenSection:
		return m.handleSectionKey(msg)
	case screenSummary:
		return m.handleSummaryKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	submitted := m.request != nil && m.request.IsSubmitted()
	progressText := ""
	if tr := m.dashboard.Tracker(); tr != nil {
		progressText = tr.ProgressText()
	}
	m.session.Log.Exit(progressText, submitted)
	m.dashboard.Deactivate()
	return m, tea.Quit
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := domain.SectionIDs()
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
	case "enter":
		id := ids[m.cursor]
		d := m.dashboard
		return m, m.action(false, false, func(context.Context) error { return d.OnSectionPress(id) })
	case "s":
		d := m.dashboard
		m.saving++
		return m, m.action(true, true, d.OnSaveDraft)
	case "i":
		d := m.dashboard
		m.saving++
		return m, m.action(true, true, d.OnSubmitToTC)
	case "v":
		m.screen = screenSummary
		m.summaryText = ""
		m.refreshSummary()
		return m, m.summaryCmd()
	}
	return m, nil
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc", "v":
		m.screen = screenDashboard
		return m, nil
	}
	var cmd tea.Cmd
	m.summary, cmd = m.summary.Update(msg)
	return m, cmd
}

func (m Model) handleSectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.current
	if c == nil {
		m.screen = screenDashboard
		return m, nil
	}
	fields := c.Config().Fields

	switch msg.String() {
	case "esc":
		return m, m.action(false, false, func(context.Context) error { return c.OnNavBack() })
	case "ctrl+n":
		m.saving++
		return m, m.action(true, false, c.OnNextSection)
	case "ctrl+p":
		return m, m.action(false, false, func(context.Context) error { return c.OnPreviousSection() })
	case "ctrl+s":
		m.saving++
		return m, m.action(true, false, c.OnSaveDraft)
	case "ctrl+t":
		m.saving++
		return m, m.action(true, false, c.OnSubmitToTC)
	case "tab", "down":
		return m.setFocus((m.focus + 1) % len(fields))
	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + len(fields)) % len(fields))
	case "enter":
		if m.focus == len(fields)-1 {
			m.saving++
			return m, m.action(true, false, c.OnNextSection)
		}
		return m.setFocus(m.focus + 1)
	}

	f := fields[m.focus]
	if f.Kind == section.KindChoice {
		return m.handleChoiceKey(c, f, msg)
	}

	in, ok := m.inputs[f.Key]
	if !ok {
		return m, nil
	}
	before := in.Value()
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[f.Key] = in
	if in.Value() != before {
		if err := c.OnFieldChange(f.Key, in.Value()); err != nil {
			debug.Logf("tui: field change: %v", err)
		}
	}
	return m, cmd
}

func (m Model) handleChoiceKey(c *section.Controller, f section.Field, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := c.SelectedIndex(f.Key)
	n := len(f.Options)
	switch msg.String() {
	case "right", "l", " ":
		idx = (idx + 1) % n
	case "left", "h":
		if idx <= 0 {
			idx = n - 1
		} else {
			idx--
		}
	case "backspace", "delete":
		idx = -1
	default:
		return m, nil
	}
	if err := c.Select(f.Key, idx); err != nil {
		debug.Logf("tui: select: %v", err)
	}
	return m, nil
}

func (m Model) setFocus(i int) (tea.Model, tea.Cmd) {
	if m.current == nil {
		return m, nil
	}
	fields := m.current.Config().Fields
	if i < 0 || i >= len(fields) {
		return m, nil
	}
	m.focus = i
	var cmd tea.Cmd
	for idx, f := range fields {
		in, ok := m.inputs[f.Key]
		if !ok {
			continue
		}
		if idx == i {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[f.Key] = in
	}
	return m, cmd
}

// navigate switches screens for a route resolved by the gateway.
func (m Model) navigate(route string) (tea.Model, tea.Cmd) {
	if route == protocol.RouteDashboard {
		m.screen = screenDashboard
		m.current = nil
		return m, nil
	}
	id, ok := protocol.SectionFromRoute(route)
	if !ok || !domain.IsSectionID(id) {
		debug.Logf("tui: unknown route %q", route)
		m.screen = screenDashboard
		m.current = nil
		return m, nil
	}

	c, existed := m.sections[id]
	if !existed {
		var err error
		c, err = m.session.NewSection(id)
		if err != nil {
			m.lastErr = err
			return m, nil
		}
		m.sections[id] = c
	}

	m.screen = screenSection
	m.current = c
	m.cursor = sectionIndex(id)
	m.buildInputs()
	model, focusCmd := m.setFocus(0)
	m = model.(Model)

	if existed {
		return m, focusCmd
	}
	ctx := m.ctx
	load := func() tea.Msg {
		return sectionLoadedMsg{id: id, err: c.Load(ctx)}
	}
	return m, tea.Batch(focusCmd, load)
}

func (m *Model) buildInputs() {
	m.inputs = make(map[string]textinput.Model)
	m.focus = 0
	if m.current == nil {
		return
	}
	for _, f := range m.current.Config().Fields {
		if f.Kind != section.KindText {
			continue
		}
		in := textinput.New()
		in.Placeholder = f.Hint
		in.CharLimit = 200
		in.Width = max(20, min(60, m.width-30))
		in.Prompt = ""
		in.SetValue(m.current.Value(f.Key))
		m.inputs[f.Key] = in
	}
}

// syncInputs copies controller values into inputs after a load.
func (m *Model) syncInputs() {
	for key, in := range m.inputs {
		in.SetValue(m.current.Value(key))
		m.inputs[key] = in
	}
}

func (m *Model) refreshSummary() {
	if !m.ready {
		return
	}
	content := m.summaryText
	if content == "" {
		content = "Caricamento..."
	} else if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = rendered
		}
	}
	m.summary.SetContent(content)
}

func sectionIndex(id string) int {
	n, ok := domain.SectionNumber(id)
	if !ok {
		return 0
	}
	return n - 1
}

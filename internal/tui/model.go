// Package tui implements the terminal user interface using bubbletea.
package tui

import (
	"context"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

type screen int

const (
	screenDashboard screen = iota
	screenSection
	screenSummary
)

// Settings are the UI knobs coming from config.
type Settings struct {
	AutosaveDelay   time.Duration
	ToastDuration   time.Duration
	Style           string
	SummaryTemplate string
}

// Model is the bubbletea model for the request wizard.
type Model struct {
	ctx       context.Context
	session   *wizard.Session
	dashboard *wizard.Dashboard
	settings  Settings

	request  *domain.Request
	screen   screen
	cursor   int
	sections map[string]*section.Controller
	current  *section.Controller
	focus    int
	inputs   map[string]textinput.Model

	// autosaveSeq debounces auto-saves per section; only the tick carrying
	// the latest sequence number saves.
	autosaveSeq map[string]int

	toast    string
	toastSeq int
	saving   int
	lastErr  error
	quitting bool

	spinner     spinner.Model
	bar         progressbar.Model
	summary     viewport.Model
	summaryText string
	renderer    *glamour.TermRenderer

	width  int
	height int
	ready  bool
}

// NewModel creates a model for the session. The session's router and
// notifier must deliver NavigateMsg and ToastMsg to this model.
func NewModel(ctx context.Context, s *wizard.Session, settings Settings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if settings.ToastDuration <= 0 {
		settings.ToastDuration = 3 * time.Second
	}
	if settings.Style == "" {
		settings.Style = "dark"
	}

	return Model{
		ctx:         ctx,
		session:     s,
		dashboard:   wizard.NewDashboard(s),
		settings:    settings,
		screen:      screenDashboard,
		sections:    make(map[string]*section.Controller),
		inputs:      make(map[string]textinput.Model),
		autosaveSeq: make(map[string]int),
		spinner:     sp,
		bar:         progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
	}
}

// Dashboard returns the dashboard controller driven by the model.
func (m Model) Dashboard() *wizard.Dashboard {
	return m.dashboard
}

// NavigateMsg asks the model to show a route.
type NavigateMsg struct {
	Route string
}

// ToastMsg shows a transient status message.
type ToastMsg struct {
	Text string
}

type toastExpiredMsg struct {
	seq int
}

type activatedMsg struct {
	err error
}

type requestMsg struct {
	request *domain.Request
	err     error
}

type sectionLoadedMsg struct {
	id  string
	err error
}

// autosaveRequestMsg is sent by the controllers' AutoSave hook after an edit.
type autosaveRequestMsg struct {
	id string
}

type autosaveTickMsg struct {
	id  string
	seq int
}

type saveDoneMsg struct {
	id  string
	err error
}

// actionDoneMsg reports a finished controller action. Toasts were already
// sent by the controller; reloadRequest refreshes the header.
type actionDoneMsg struct {
	err           error
	busy          bool
	reloadRequest bool
}

type summaryMsg struct {
	markdown string
	err      error
}

type rendererReadyMsg struct {
	renderer *glamour.TermRenderer
}

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/store"
	"github.com/alexander-akhmetov/ttct/internal/timing"
	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

// Options configure a wizard run.
type Options struct {
	Store     store.Store
	RequestID string
	Log       *progress.Logger
	Settings  Settings
	AltScreen bool
}

// Run shows the wizard for one request until the user quits.
func Run(ctx context.Context, opts Options) error {
	timing.Log("tui.Run: start")
	if opts.Store == nil {
		return fmt.Errorf("tui: store not configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := newPump()
	b := &bridge{send: p.send}

	s := wizard.NewSession(opts.RequestID, opts.Store, b, b, opts.Log)
	s.AutoSave = func(c *section.Controller) {
		b.send(autosaveRequestMsg{id: c.ID()})
	}
	model := NewModel(ctx, s, opts.Settings)
	timing.Log("tui.Run: session created")

	var progOpts []tea.ProgramOption
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	progOpts = append(progOpts, tea.WithContext(ctx))
	prog := tea.NewProgram(model, progOpts...)
	timing.Log("tui.Run: tea.Program created")

	go p.run(ctx, prog.Send)

	final, err := prog.Run()
	timing.Log("tui.Run: program exited")
	if m, ok := final.(Model); ok {
		m.dashboard.Deactivate()
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

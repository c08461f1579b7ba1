package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexander-akhmetov/ttct/internal/fill"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/section"
	"github.com/alexander-akhmetov/ttct/internal/store"
	"github.com/alexander-akhmetov/ttct/internal/wizard"
)

// RunConfig holds what a scripted command needs to drive a request.
type RunConfig struct {
	Store     store.Store
	Log       *progress.Logger
	Out       io.Writer // output writer (default: os.Stdout)
	IsTTY     bool
	TermWidth int
}

// Runner drives the dashboard and section controllers of one request
// without a UI. Toasts and navigation are printed by its Writer.
type Runner struct {
	w         *Writer
	session   *wizard.Session
	dashboard *wizard.Dashboard
	log       *progress.Logger
}

// NewRunner activates the dashboard of requestID so completions reach the
// tracker.
func NewRunner(ctx context.Context, requestID string, cfg RunConfig) (*Runner, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	w := NewWriter(out, cfg.IsTTY, cfg.TermWidth)

	s := wizard.NewSession(requestID, cfg.Store, w, w, cfg.Log)
	// edits are saved explicitly by SetField
	s.AutoSave = func(*section.Controller) {}

	d := wizard.NewDashboard(s)
	if err := d.Activate(ctx); err != nil {
		d.Deactivate()
		return nil, fmt.Errorf("activate dashboard: %w", err)
	}
	return &Runner{w: w, session: s, dashboard: d, log: cfg.Log}, nil
}

// Writer returns the output writer.
func (r *Runner) Writer() *Writer { return r.w }

// Tracker returns the progress tracker of the request.
func (r *Runner) Tracker() *progress.Tracker { return r.dashboard.Tracker() }

// Section loads the controller of section id.
func (r *Runner) Section(ctx context.Context, id string) (*section.Controller, error) {
	c, err := r.session.NewSection(id)
	if err != nil {
		return nil, err
	}
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// SetField writes one field and saves the section. Choice fields accept an
// option value or its text, case-insensitively; an empty value clears the
// field.
func (r *Runner) SetField(ctx context.Context, c *section.Controller, key, value string) error {
	if err := setValue(c, key, value); err != nil {
		return err
	}
	return c.OnSaveDraft(ctx)
}

// ApplySection writes the entries of a fill file to section id and saves
// it once. Unknown fields and bad options abort before anything is saved.
func (r *Runner) ApplySection(ctx context.Context, id string, entries []fill.Entry) (*section.Controller, error) {
	c, err := r.Section(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := setValue(c, e.Key, e.Value); err != nil {
			return nil, fmt.Errorf("line %d: %w", e.Line, err)
		}
	}
	if err := c.OnSaveDraft(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func setValue(c *section.Controller, key, value string) error {
	f, ok := c.Config().Field(key)
	if !ok {
		return unknownFieldError(c.Config(), key)
	}

	if f.Kind != section.KindChoice {
		return c.OnFieldChange(key, value)
	}
	idx := -1
	if value != "" {
		idx = matchOption(f, value)
		if idx < 0 {
			return fmt.Errorf("%w %q for %s (valid: %s)", section.ErrBadOption, value, key, strings.Join(optionValues(f), ", "))
		}
	}
	return c.Select(key, idx)
}

// SaveDraft touches the request.
func (r *Runner) SaveDraft(ctx context.Context) error {
	return r.dashboard.OnSaveDraft(ctx)
}

// Submit submits the request if every required section is complete.
func (r *Runner) Submit(ctx context.Context) error {
	return r.dashboard.OnSubmitToTC(ctx)
}

// Close releases the dashboard subscriptions and closes the session log.
func (r *Runner) Close(submitted bool) {
	text := ""
	if t := r.dashboard.Tracker(); t != nil {
		text = t.ProgressText()
	}
	r.log.Exit(text, submitted)
	r.dashboard.Deactivate()
}

func matchOption(f section.Field, value string) int {
	for i, opt := range f.Options {
		if strings.EqualFold(opt.Value, value) || strings.EqualFold(opt.Text, value) {
			return i
		}
	}
	return -1
}

func optionValues(f section.Field) []string {
	out := make([]string, len(f.Options))
	for i, opt := range f.Options {
		out[i] = opt.Value
	}
	return out
}

func unknownFieldError(cfg section.Config, key string) error {
	keys := make([]string, len(cfg.Fields))
	for i, f := range cfg.Fields {
		keys[i] = f.Key
	}
	err := fmt.Errorf("section %s: %w %q", cfg.ID, section.ErrUnknownField, key)
	if s := suggest(key, keys); s != "" {
		return fmt.Errorf("%w, did you mean %q?", err, s)
	}
	return fmt.Errorf("%w (fields: %s)", err, strings.Join(keys, ", "))
}

// isCanceled reports whether err came from an interrupted command.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

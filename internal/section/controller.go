package section

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexander-akhmetov/ttct/internal/debug"
	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/event"
	"github.com/alexander-akhmetov/ttct/internal/nav"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

var (
	// ErrSuperseded is returned by a save that a newer save replaced before
	// it finished. A superseded save never publishes completion.
	ErrSuperseded = errors.New("save superseded by a newer save")
	// ErrValidation is returned when forward navigation is refused.
	ErrValidation = errors.New("section data is incomplete")
	// ErrUnknownField is returned for keys not in the section schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrBadOption is returned for an out of range choice index.
	ErrBadOption = errors.New("option index out of range")
	// ErrNoStore is returned when the controller has no store.
	ErrNoStore = errors.New("store not configured")
)

// State is the editing state of a section.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateInvalid
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateInvalid:
		return "invalid"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Deps are the collaborators of a controller. All are shared with the
// dashboard through the session; any of Bus, Notifier and Log may be nil.
type Deps struct {
	RequestID string
	Store     store.Store
	Bus       *event.Bus
	Gateway   *nav.Gateway
	Notifier  nav.Notifier
	Log       *progress.Logger
	// AutoSave schedules the save that follows an edit. When nil the save
	// runs on its own goroutine.
	AutoSave func(c *Controller)
}

// Controller drives one section form.
type Controller struct {
	cfg  Config
	deps Deps

	mu                  sync.Mutex
	values              map[string]string
	showValidationError bool
	state               State
	gen                 uint64
	cancel              context.CancelFunc

	// writeMu orders store writes so a superseded save can't land after
	// the save that replaced it.
	writeMu sync.Mutex
}

// New creates a controller for cfg.
func New(cfg Config, deps Deps) *Controller {
	return &Controller{
		cfg:    cfg,
		deps:   deps,
		values: make(map[string]string),
	}
}

// NewForSection creates a controller for a catalog section.
func NewForSection(id string, deps Deps) (*Controller, error) {
	cfg, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("section %q: not in catalog", id)
	}
	return New(cfg, deps), nil
}

// ID returns the section id.
func (c *Controller) ID() string { return c.cfg.ID }

// Config returns the section configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the current editing state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ShowValidationError reports whether the validation error is displayed.
func (c *Controller) ShowValidationError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showValidationError
}

// Value returns the current value of a field.
func (c *Controller) Value(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

// Values returns a copy of the form values.
func (c *Controller) Values() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyValuesLocked()
}

// SelectedIndex returns the index of the selected option of a choice field,
// or -1 when nothing is selected.
func (c *Controller) SelectedIndex(key string) int {
	f, ok := c.cfg.Field(key)
	if !ok {
		return -1
	}
	return f.OptionIndex(c.Value(key))
}

// OnFieldChange writes a field, clears the validation error and schedules
// an auto-save.
func (c *Controller) OnFieldChange(key, value string) error {
	if _, ok := c.cfg.Field(key); !ok {
		return fmt.Errorf("section %s: %w %q", c.cfg.ID, ErrUnknownField, key)
	}

	c.mu.Lock()
	if value == "" {
		delete(c.values, key)
	} else {
		c.values[key] = value
	}
	c.showValidationError = false
	c.state = StateEditing
	c.mu.Unlock()

	c.scheduleAutoSave()
	return nil
}

// Select picks option idx of a choice field; -1 clears the selection.
func (c *Controller) Select(key string, idx int) error {
	f, ok := c.cfg.Field(key)
	if !ok || f.Kind != KindChoice {
		return fmt.Errorf("section %s: %w %q", c.cfg.ID, ErrUnknownField, key)
	}
	if idx < -1 || idx >= len(f.Options) {
		return fmt.Errorf("section %s field %s: %w: %d", c.cfg.ID, key, ErrBadOption, idx)
	}
	if idx == -1 {
		return c.OnFieldChange(key, "")
	}
	opt := f.Options[idx]
	if err := c.OnFieldChange(key, opt.Value); err != nil {
		return err
	}
	c.notify(protocol.MsgSelected(opt.Text))
	return nil
}

// Validate runs the section predicate over the current values.
func (c *Controller) Validate() bool {
	return c.cfg.Valid(c.Values())
}

// Save persists the current values. An empty form is a successful no-op
// that still supersedes any save in flight.
// Completion is published only when the store accepted the data and the
// data is valid. Starting a save cancels any save still in flight for this
// section; the cancelled one returns ErrSuperseded.
func (c *Controller) Save(ctx context.Context) error {
	if c.deps.Store == nil {
		return ErrNoStore
	}
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	gen := c.gen
	values := c.copyValuesLocked()
	if !hasValues(values) {
		c.mu.Unlock()
		return nil
	}
	saveCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	valid := c.cfg.Valid(values)

	c.writeMu.Lock()
	err := c.deps.Store.SaveSectionData(saveCtx, c.deps.RequestID, store.Payload{
		SectionID: c.cfg.ID,
		Fields:    values,
		Complete:  valid,
	})
	c.writeMu.Unlock()

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		debug.Logf("section %s: save %d superseded", c.cfg.ID, gen)
		return ErrSuperseded
	}
	c.cancel = nil
	if err != nil {
		c.mu.Unlock()
		c.deps.Log.Errorf("section %s save failed: %v", c.cfg.ID, err)
		return fmt.Errorf("save section %s: %w", c.cfg.ID, err)
	}
	c.state = StateSaved
	c.mu.Unlock()

	c.deps.Log.SectionSaved(c.cfg.ID, len(values), valid)
	if !valid {
		return nil
	}
	if c.deps.Bus == nil {
		return nil
	}
	if err := c.deps.Bus.Publish(event.Completed(c.cfg.ID)); err != nil {
		return fmt.Errorf("publish completion: %w", err)
	}
	return nil
}

// Load fills the form from the store. Values for fields not in the schema
// and choice values that match no option are ignored.
func (c *Controller) Load(ctx context.Context) error {
	if c.deps.Store == nil {
		return ErrNoStore
	}
	p, err := c.deps.Store.LoadSectionData(ctx, c.deps.RequestID, c.cfg.ID)
	if err != nil {
		return fmt.Errorf("load section %s: %w", c.cfg.ID, err)
	}
	if p == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, v := range p.Fields {
		f, ok := c.cfg.Field(key)
		if !ok || v == "" {
			continue
		}
		if f.Kind == KindChoice && f.OptionIndex(v) < 0 {
			debug.Logf("section %s: ignoring unknown option %q for %s", c.cfg.ID, v, key)
			continue
		}
		c.values[key] = v
	}
	if len(c.values) > 0 {
		c.state = StateSaved
	}
	return nil
}

// OnNextSection validates, saves and moves to the next section. Invalid
// data shows the validation error and does not navigate.
func (c *Controller) OnNextSection(ctx context.Context) error {
	if !c.Validate() {
		c.mu.Lock()
		c.showValidationError = true
		c.state = StateInvalid
		c.mu.Unlock()
		c.deps.Log.ValidationFailed(c.cfg.ID)
		c.notify(c.cfg.Message())
		return ErrValidation
	}

	if err := c.Save(ctx); err != nil {
		if !errors.Is(err, ErrSuperseded) {
			c.notify(protocol.MsgNextError)
		}
		return err
	}
	return c.navigate(domain.NextTarget(c.cfg.ID))
}

// OnPreviousSection moves to the previous section, or the dashboard from
// section 1. It never validates.
func (c *Controller) OnPreviousSection() error {
	return c.navigate(domain.PreviousTarget(c.cfg.ID))
}

// OnNavBack returns to the dashboard.
func (c *Controller) OnNavBack() error {
	return c.navigate(protocol.DashboardTarget)
}

// OnSaveDraft saves regardless of validity.
func (c *Controller) OnSaveDraft(ctx context.Context) error {
	err := c.Save(ctx)
	switch {
	case errors.Is(err, ErrSuperseded):
	case err != nil:
		c.notify(protocol.MsgDraftError)
	default:
		c.notify(protocol.MsgSectionDraftSaved(c.cfg.ID))
	}
	return err
}

// OnSubmitToTC saves the section; submission itself happens from the
// dashboard.
func (c *Controller) OnSubmitToTC(ctx context.Context) error {
	err := c.Save(ctx)
	switch {
	case errors.Is(err, ErrSuperseded):
	case err != nil:
		c.notify(protocol.MsgSaveError)
	default:
		c.notify(protocol.MsgSectionSubmitNotYet)
	}
	return err
}

func (c *Controller) scheduleAutoSave() {
	if c.deps.AutoSave != nil {
		c.deps.AutoSave(c)
		return
	}
	go func() {
		err := c.Save(context.Background())
		if err != nil && !errors.Is(err, ErrSuperseded) {
			c.notify(protocol.MsgSaveError)
		}
	}()
}

func (c *Controller) navigate(target string) error {
	if c.deps.Gateway == nil {
		c.notify(protocol.MsgRouterUnavailable)
		return nav.ErrNoRouter
	}
	return c.deps.Gateway.NavigateTo(target)
}

func (c *Controller) notify(msg string) {
	if c.deps.Notifier != nil {
		c.deps.Notifier.Show(msg)
	}
}

func (c *Controller) copyValuesLocked() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

func hasValues(values map[string]string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

package section

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/ttct/internal/event"
	"github.com/alexander-akhmetov/ttct/internal/nav"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
	"github.com/alexander-akhmetov/ttct/internal/store"
)

type fixture struct {
	store     *store.MockStore
	bus       *event.Bus
	tracker   *progress.Tracker
	requestID string

	mu        sync.Mutex
	routes    []string
	toasts    []string
	published []event.SectionCompleted
	autosaves int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   store.NewMockStore(),
		bus:     event.NewBus(),
		tracker: progress.Initialize(),
	}
	req, err := f.store.CreateRequest(context.Background(), "test")
	require.NoError(t, err)
	f.requestID = req.ID

	sub := f.tracker.Attach(f.bus)
	t.Cleanup(sub.Release)
	rec := f.bus.Subscribe(func(e event.SectionCompleted) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.published = append(f.published, e)
	})
	t.Cleanup(rec.Release)
	return f
}

func (f *fixture) deps() Deps {
	notifier := nav.NotifierFunc(func(msg string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.toasts = append(f.toasts, msg)
	})
	router := nav.RouterFunc(func(route string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.routes = append(f.routes, route)
		return nil
	})
	return Deps{
		RequestID: f.requestID,
		Store:     f.store,
		Bus:       f.bus,
		Gateway:   nav.NewGateway(router, notifier),
		Notifier:  notifier,
		AutoSave: func(*Controller) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.autosaves++
		},
	}
}

func (f *fixture) controller(t *testing.T, id string) *Controller {
	t.Helper()
	c, err := NewForSection(id, f.deps())
	require.NoError(t, err)
	return c
}

func (f *fixture) lastToast() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.toasts) == 0 {
		return ""
	}
	return f.toasts[len(f.toasts)-1]
}

func (f *fixture) Routes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.routes...)
}

func (f *fixture) Published() []event.SectionCompleted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]event.SectionCompleted(nil), f.published...)
}

func TestNewForSectionUnknown(t *testing.T) {
	_, err := NewForSection("15", Deps{})
	assert.Error(t, err)
}

func TestNextWithoutSelectionShowsValidationError(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "1")
	assert.Equal(t, -1, c.SelectedIndex(TipologiaField))

	err := c.OnNextSection(context.Background())

	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, c.ShowValidationError())
	assert.Equal(t, StateInvalid, c.State())
	assert.Empty(t, f.Routes(), "no navigation")
	assert.Equal(t, protocol.MsgSelectTipologia, f.lastToast())
	assert.Zero(t, f.store.SaveCount())
}

func TestSelectAndSavePublishesCompletion(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "1")

	require.NoError(t, c.Select(TipologiaField, 0))
	assert.Equal(t, 0, c.SelectedIndex(TipologiaField))
	assert.Equal(t, "NUOVA", c.Value(TipologiaField))
	assert.Equal(t, "Selezionato: Nuova richiesta", f.lastToast())
	assert.Equal(t, 1, f.autosaves)

	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, []event.SectionCompleted{{SectionID: "1", Completed: true}}, f.Published())
	status, ok := f.tracker.Section("1")
	require.True(t, ok)
	assert.True(t, status.Completed)
	assert.Equal(t, StateSaved, c.State())

	p, err := f.store.LoadSectionData(context.Background(), f.requestID, "1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "NUOVA", p.Fields[TipologiaField])
	assert.True(t, p.Complete)
}

func TestValidSaveFlipsTracker(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "2")
	require.NoError(t, c.OnFieldChange("codiceProgramma", "P-001"))
	require.NoError(t, c.OnFieldChange("nomeProgramma", "Alpha"))

	require.NoError(t, c.Save(context.Background()))

	status, _ := f.tracker.Section("2")
	assert.True(t, status.Completed)
	assert.False(t, status.IsEmpty)
	assert.Equal(t, "2 di 14 sezioni completate", f.tracker.ProgressText())
}

func TestSaveEmptyFormIsNoop(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "2")

	require.NoError(t, c.Save(context.Background()))

	assert.Zero(t, f.store.SaveCount())
	assert.Empty(t, f.Published())
	assert.Equal(t, StateEmpty, c.State())
}

func TestSaveInvalidPersistsDraftWithoutCompletion(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "2")
	require.NoError(t, c.OnFieldChange("codiceProgramma", "P-001"))

	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, 1, f.store.SaveCount())
	assert.False(t, f.store.SaveCalls[0].Complete)
	assert.Empty(t, f.Published())
	status, _ := f.tracker.Section("2")
	assert.False(t, status.Completed)
}

func TestSaveFailureDoesNotPublish(t *testing.T) {
	f := newFixture(t)
	f.store.SaveSectionDataFunc = func(context.Context, string, store.Payload) error {
		return errors.New("disk full")
	}
	c := f.controller(t, "1")
	require.NoError(t, c.Select(TipologiaField, 1))

	err := c.Save(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, f.Published())
	assert.Equal(t, "PRECISAZIONE", c.Value(TipologiaField), "in-memory state kept")
}

func TestSupersededSaveNeverPublishes(t *testing.T) {
	f := newFixture(t)
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex
	f.store.SaveSectionDataFunc = func(ctx context.Context, requestID string, p store.Payload) error {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}

	c := f.controller(t, "2")
	require.NoError(t, c.OnFieldChange("codiceProgramma", "P-001"))
	require.NoError(t, c.OnFieldChange("nomeProgramma", "Alpha"))

	first := make(chan error, 1)
	go func() { first <- c.Save(context.Background()) }()
	<-started

	require.NoError(t, c.OnFieldChange("nomeProgramma", "Beta"))
	require.NoError(t, c.Save(context.Background()))

	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first save did not return")
	}

	published := f.Published()
	assert.Len(t, published, 1, "only the latest save publishes")
	assert.Equal(t, "Beta", f.store.SaveCalls[1].Fields["nomeProgramma"])
}

func TestClearingFormSupersedesSaveInFlight(t *testing.T) {
	f := newFixture(t)
	started := make(chan struct{})
	f.store.SaveSectionDataFunc = func(ctx context.Context, requestID string, p store.Payload) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}

	c := f.controller(t, "2")
	require.NoError(t, c.OnFieldChange("codiceProgramma", "P1"))
	require.NoError(t, c.OnFieldChange("nomeProgramma", "Alpha"))

	first := make(chan error, 1)
	go func() { first <- c.Save(context.Background()) }()
	<-started

	require.NoError(t, c.OnFieldChange("codiceProgramma", ""))
	require.NoError(t, c.OnFieldChange("nomeProgramma", ""))
	require.NoError(t, c.Save(context.Background()))

	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first save did not return")
	}

	assert.Empty(t, f.Published())
	st, ok := f.tracker.Section("2")
	require.True(t, ok)
	assert.False(t, st.Completed)
	assert.Len(t, f.store.SaveCalls, 1, "empty form is not written")
}

func TestOnFieldChangeClearsValidationError(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "2")
	require.ErrorIs(t, c.OnNextSection(context.Background()), ErrValidation)
	require.True(t, c.ShowValidationError())
	assert.Equal(t, protocol.MsgRequiredFields, f.lastToast())

	require.NoError(t, c.OnFieldChange("codiceProgramma", "P-001"))

	assert.False(t, c.ShowValidationError())
	assert.Equal(t, StateEditing, c.State())
}

func TestOnFieldChangeUnknownField(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "2")
	assert.ErrorIs(t, c.OnFieldChange("nope", "x"), ErrUnknownField)
	assert.Zero(t, f.autosaves)
}

func TestSelectErrors(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "1")
	assert.ErrorIs(t, c.Select(TipologiaField, 3), ErrBadOption)
	assert.ErrorIs(t, c.Select("codiceProgramma", 0), ErrUnknownField)

	require.NoError(t, c.Select(TipologiaField, 2))
	require.NoError(t, c.Select(TipologiaField, -1))
	assert.Equal(t, -1, c.SelectedIndex(TipologiaField))
}

func TestOnNextSectionNavigates(t *testing.T) {
	tests := []struct {
		section string
		values  map[string]string
		route   string
	}{
		{"1", map[string]string{TipologiaField: "NUOVA"}, "section2"},
		{"2", map[string]string{"codiceProgramma": "P1", "nomeProgramma": "Alpha"}, "section3"},
		{"7", map[string]string{"riferimentoAllegati": "ALL-1"}, "section8"},
		{"14", map[string]string{"dichiarazioneConformita": "SI"}, "dashboard"},
	}
	for _, tc := range tests {
		t.Run(tc.section, func(t *testing.T) {
			f := newFixture(t)
			c := f.controller(t, tc.section)
			for k, v := range tc.values {
				require.NoError(t, c.OnFieldChange(k, v))
			}

			require.NoError(t, c.OnNextSection(context.Background()))

			assert.Equal(t, []string{tc.route}, f.Routes())
			assert.Equal(t, 1, f.store.SaveCount())
			status, _ := f.tracker.Section(tc.section)
			assert.True(t, status.Completed)
		})
	}
}

func TestOnNextSectionSaveFailureStays(t *testing.T) {
	f := newFixture(t)
	f.store.SaveSectionDataFunc = func(context.Context, string, store.Payload) error {
		return errors.New("offline")
	}
	c := f.controller(t, "1")
	require.NoError(t, c.Select(TipologiaField, 0))

	err := c.OnNextSection(context.Background())

	require.Error(t, err)
	assert.Empty(t, f.Routes())
	assert.Equal(t, protocol.MsgNextError, f.lastToast())
}

func TestOnPreviousSection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller(t, "1").OnPreviousSection())
	require.NoError(t, f.controller(t, "5").OnPreviousSection())
	assert.Equal(t, []string{"dashboard", "section4"}, f.Routes())
	assert.Zero(t, f.store.SaveCount(), "backward navigation never saves")
}

func TestOnNavBack(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller(t, "9").OnNavBack())
	assert.Equal(t, []string{"dashboard"}, f.Routes())
}

func TestNavigationWithoutRouter(t *testing.T) {
	f := newFixture(t)
	deps := f.deps()
	deps.Gateway = nav.NewGateway(nil, deps.Notifier)
	c := New(Catalog()[0], deps)

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, c.OnNavBack(), nav.ErrNoRouter)
	})
	assert.Equal(t, protocol.MsgRouterUnavailable, f.lastToast())
}

func TestOnSaveDraft(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "2")
	require.NoError(t, c.OnFieldChange("codiceProgramma", "P-001"))

	require.NoError(t, c.OnSaveDraft(context.Background()))
	assert.Equal(t, "Sezione 2 salvata in bozza", f.lastToast())
	assert.Empty(t, f.Published(), "draft is incomplete")

	f.store.SaveSectionDataFunc = func(context.Context, string, store.Payload) error {
		return errors.New("boom")
	}
	require.Error(t, c.OnSaveDraft(context.Background()))
	assert.Equal(t, protocol.MsgDraftError, f.lastToast())
}

func TestOnSubmitToTCFromSection(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "1")
	require.NoError(t, c.Select(TipologiaField, 0))

	require.NoError(t, c.OnSubmitToTC(context.Background()))

	assert.Equal(t, protocol.MsgSectionSubmitNotYet, f.lastToast())
	assert.Equal(t, 1, f.store.SaveCount())
	assert.Empty(t, f.store.SubmitCalls)
}

func TestLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SaveSectionData(ctx, f.requestID, store.Payload{
		SectionID: "4",
		Fields: map[string]string{
			"descrizione": "Turbine",
			"categoria":   "IMMOBILI",
			"legacy":      "x",
		},
	}))

	c := f.controller(t, "4")
	require.NoError(t, c.Load(ctx))

	assert.Equal(t, map[string]string{"descrizione": "Turbine"}, c.Values())
	assert.Equal(t, -1, c.SelectedIndex("categoria"))
	assert.Equal(t, StateSaved, c.State())
	assert.Empty(t, f.Published(), "loading never publishes")
}

func TestLoadSection1MapsOption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SaveSectionData(ctx, f.requestID, store.Payload{
		SectionID: "1",
		Fields:    map[string]string{TipologiaField: "VARIAZIONE"},
		Complete:  true,
	}))

	c := f.controller(t, "1")
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 2, c.SelectedIndex(TipologiaField))
}

func TestLoadNothingSaved(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, "3")
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.Values())
}

func TestDefaultAutoSaveRunsInBackground(t *testing.T) {
	f := newFixture(t)
	deps := f.deps()
	deps.AutoSave = nil
	c, err := NewForSection("1", deps)
	require.NoError(t, err)

	require.NoError(t, c.Select(TipologiaField, 0))

	require.Eventually(t, func() bool {
		status, _ := f.tracker.Section("1")
		return f.store.SaveCount() == 1 && status.Completed
	}, 2*time.Second, 5*time.Millisecond)
}

func TestNoStore(t *testing.T) {
	c := New(Catalog()[1], Deps{})
	require.NoError(t, c.OnFieldChange("codiceProgramma", "x"))
	assert.ErrorIs(t, c.Save(context.Background()), ErrNoStore)
	assert.ErrorIs(t, c.Load(context.Background()), ErrNoStore)
}

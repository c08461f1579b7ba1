package nav

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

type recorder struct {
	routes   []string
	messages []string
	err      error
}

func (r *recorder) NavTo(route string) error {
	r.routes = append(r.routes, route)
	return r.err
}

func (r *recorder) Show(msg string) {
	r.messages = append(r.messages, msg)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		target string
		route  string
		ok     bool
	}{
		{"dashboard", "dashboard", true},
		{"1", "section1", true},
		{"14", "section14", true},
		{"15", "", false},
		{"99", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			route, ok := Resolve(tc.target)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.route, route)
		})
	}
}

func TestNavigateToSection(t *testing.T) {
	rec := &recorder{}
	g := NewGateway(rec, rec)

	require.NoError(t, g.NavigateTo("3"))
	assert.Equal(t, []string{"section3"}, rec.routes)
	assert.Empty(t, rec.messages)
}

func TestNavigateToUnknownFallsBack(t *testing.T) {
	rec := &recorder{}
	g := NewGateway(rec, rec)

	assert.NotPanics(t, func() {
		require.NoError(t, g.NavigateTo("99"))
	})
	assert.Equal(t, []string{protocol.RouteDashboard}, rec.routes)
	assert.Equal(t, []string{"Sezione 99 non ancora implementata"}, rec.messages)
}

func TestNavigateWithoutRouter(t *testing.T) {
	rec := &recorder{}
	g := NewGateway(nil, rec)

	err := g.NavigateTo("2")
	assert.ErrorIs(t, err, ErrNoRouter)
	assert.Equal(t, []string{protocol.MsgRouterUnavailable}, rec.messages)

	err = g.Back()
	assert.ErrorIs(t, err, ErrNoRouter)
	assert.Equal(t, protocol.MsgCannotGoBack, rec.messages[1])
}

func TestNavigateWithoutNotifier(t *testing.T) {
	g := NewGateway(nil, nil)
	assert.NotPanics(t, func() {
		_ = g.NavigateTo("2")
	})
}

func TestNavigateRouterError(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	g := NewGateway(rec, rec)

	err := g.NavigateTo("4")
	require.Error(t, err)
	assert.Equal(t, []string{"Errore nella navigazione alla sezione 4"}, rec.messages)
}

func TestObserver(t *testing.T) {
	rec := &recorder{}
	g := NewGateway(rec, nil)
	var seen [][2]string
	g.SetObserver(func(target, route string) {
		seen = append(seen, [2]string{target, route})
	})

	require.NoError(t, g.NavigateTo("dashboard"))
	require.NoError(t, g.NavigateTo("42"))
	assert.Equal(t, [][2]string{{"dashboard", "dashboard"}, {"42", "dashboard"}}, seen)
}

func TestFuncAdapters(t *testing.T) {
	var route, msg string
	g := NewGateway(RouterFunc(func(r string) error { route = r; return nil }), NotifierFunc(func(m string) { msg = m }))
	require.NoError(t, g.NavigateTo("7"))
	assert.Equal(t, "section7", route)
	require.NoError(t, g.NavigateTo("x"))
	assert.Equal(t, "Sezione x non ancora implementata", msg)
}

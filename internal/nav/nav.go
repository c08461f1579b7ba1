// Package nav implements the navigation gateway: it maps a logical target
// (a section id or "dashboard") to a route and asks the router to switch to
// it, degrading to the dashboard for anything it does not know.
package nav

import (
	"errors"
	"fmt"

	"github.com/alexander-akhmetov/ttct/internal/debug"
	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

// ErrNoRouter is returned when navigation is requested without a router.
var ErrNoRouter = errors.New("router not available")

// Router switches the visible screen to a named route.
type Router interface {
	NavTo(route string) error
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Show(message string)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(route string) error

// NavTo calls f(route).
func (f RouterFunc) NavTo(route string) error { return f(route) }

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Show calls f(message).
func (f NotifierFunc) Show(message string) { f(message) }

// Observer is told about every route the gateway resolves.
type Observer func(target, route string)

// Gateway resolves navigation targets.
type Gateway struct {
	router   Router
	notifier Notifier
	observe  Observer
}

// NewGateway creates a gateway. router may be nil; navigation then reports
// ErrNoRouter to the user instead of failing hard. notifier may be nil.
func NewGateway(router Router, notifier Notifier) *Gateway {
	return &Gateway{router: router, notifier: notifier}
}

// SetObserver registers a callback invoked for each resolved route.
func (g *Gateway) SetObserver(o Observer) {
	g.observe = o
}

// Resolve maps a target to its route. ok is false for unknown targets.
func Resolve(target string) (route string, ok bool) {
	if target == protocol.DashboardTarget {
		return protocol.RouteDashboard, true
	}
	if domain.IsSectionID(target) {
		return protocol.SectionRoute(target), true
	}
	return "", false
}

// NavigateTo switches to target. Unknown targets show a "not implemented"
// message and fall back to the dashboard. The returned error is already
// reported to the user; callers only need it to decide whether to proceed.
func (g *Gateway) NavigateTo(target string) error {
	if g.router == nil {
		g.show(protocol.MsgRouterUnavailable)
		return ErrNoRouter
	}

	route, ok := Resolve(target)
	if !ok {
		debug.Logf("nav: unknown target %q, falling back to dashboard", target)
		g.show(protocol.MsgSectionNotImplemented(target))
		route = protocol.RouteDashboard
	}

	if err := g.router.NavTo(route); err != nil {
		g.show(protocol.MsgNavigationError(target))
		return fmt.Errorf("navigate to %s: %w", route, err)
	}
	if g.observe != nil {
		g.observe(target, route)
	}
	return nil
}

// Back returns to the dashboard.
func (g *Gateway) Back() error {
	if g.router == nil {
		g.show(protocol.MsgCannotGoBack)
		return ErrNoRouter
	}
	return g.NavigateTo(protocol.DashboardTarget)
}

func (g *Gateway) show(msg string) {
	if g.notifier != nil {
		g.notifier.Show(msg)
	}
}

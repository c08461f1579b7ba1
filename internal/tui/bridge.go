package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/ttct/internal/debug"
)

// bridge is the router and notifier handed to the controllers. It turns
// their calls into program messages. Controllers may call it from inside
// Update, so send must never block on the program loop.
type bridge struct {
	send func(tea.Msg)
}

// NavTo implements nav.Router.
func (b *bridge) NavTo(route string) error {
	b.send(NavigateMsg{Route: route})
	return nil
}

// Show implements nav.Notifier.
func (b *bridge) Show(message string) {
	b.send(ToastMsg{Text: message})
}

// pump queues messages for a program. send never blocks and messages
// are delivered in the order they were sent.
type pump struct {
	mu    sync.Mutex
	queue []tea.Msg
	wake  chan struct{}
}

func newPump() *pump {
	return &pump{wake: make(chan struct{}, 1)}
}

func (p *pump) send(msg tea.Msg) {
	p.mu.Lock()
	p.queue = append(p.queue, msg)
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *pump) drain() []tea.Msg {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.queue
	p.queue = nil
	return out
}

// run hands queued messages to deliver until ctx is done. Messages still
// queued at that point are dropped.
func (p *pump) run(ctx context.Context, deliver func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			if n := len(p.drain()); n > 0 {
				debug.Logf("tui: dropped %d queued messages on shutdown", n)
			}
			return
		case <-p.wake:
			for _, msg := range p.drain() {
				deliver(msg)
			}
		}
	}
}

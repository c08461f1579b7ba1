package event

import (
	"fmt"
	"sync"

	"github.com/alexander-akhmetov/ttct/internal/debug"
)

// Bus is the single-channel completion bus. Delivery is synchronous on the
// publisher's goroutine; handlers must not block.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscription is a scoped registration on the bus. Release it when the
// owner is torn down.
type Subscription struct {
	bus  *Bus
	id   uint64
	once sync.Once
}

// Release removes the handler from the bus. Calling it more than once, or on
// a nil subscription, is a no-op.
func (s *Subscription) Release() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.handlers, s.id)
		s.bus.mu.Unlock()
	})
}

// Subscribe registers h and returns its subscription.
func (b *Bus) Subscribe(h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[b.nextID] = h
	return &Subscription{bus: b, id: b.nextID}
}

// Unsubscribe releases sub. Equivalent to sub.Release().
func (b *Bus) Unsubscribe(sub *Subscription) {
	sub.Release()
}

// Publish validates msg and delivers it to every current subscriber.
func (b *Bus) Publish(msg SectionCompleted) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.handlers))
	for id := uint64(1); id <= b.nextID; id++ {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.Unlock()

	debug.Logf("bus: %s section=%s completed=%v subscribers=%d", Topic(), msg.SectionID, msg.Completed, len(handlers))
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// PublishRaw decodes a raw JSON payload and publishes it. Malformed payloads
// are rejected without reaching subscribers.
func (b *Bus) PublishRaw(raw []byte) error {
	msg, err := ParseSectionCompleted(raw)
	if err != nil {
		return fmt.Errorf("publish %s: %w", Topic(), err)
	}
	return b.Publish(msg)
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

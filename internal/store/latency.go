package store

import (
	"context"
	"time"
)

// Delayed wraps a Store and delays section saves and loads, simulating a
// remote backend. The delay honors context cancellation, so a superseded
// save is abandoned before it reaches the wrapped store.
type Delayed struct {
	Store
	Latency time.Duration
}

// WithLatency wraps s. A non-positive latency returns s unchanged.
func WithLatency(s Store, latency time.Duration) Store {
	if latency <= 0 {
		return s
	}
	return &Delayed{Store: s, Latency: latency}
}

func (d *Delayed) wait(ctx context.Context) error {
	t := time.NewTimer(d.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Delayed) SaveSectionData(ctx context.Context, requestID string, p Payload) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	return d.Store.SaveSectionData(ctx, requestID, p)
}

func (d *Delayed) LoadSectionData(ctx context.Context, requestID, sectionID string) (*Payload, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.Store.LoadSectionData(ctx, requestID, sectionID)
}

func (d *Delayed) SubmitRequest(ctx context.Context, id, snapshot string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	return d.Store.SubmitRequest(ctx, id, snapshot)
}

package memory

import (
	"context"
	"sync"

	appoutbox "staynest/internal/app/outbox"
)

// Outbox buffers event records in memory. Flush hands them to the configured
// sink, or drops them when none is set. Suitable for the memory storage mode
// where no broker is wired.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord

	// Sink receives flushed records. Optional.
	Sink func(ctx context.Context, records []appoutbox.EventRecord) error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	o.mu.Unlock()
	if o.Sink == nil || len(pending) == 0 {
		return nil
	}
	return o.Sink(ctx, pending)
}

var _ appoutbox.Outbox = (*Outbox)(nil)

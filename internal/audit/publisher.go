package audit

import (
	"context"
	"errors"
	"time"

	id "residentportal/pkg/domain"
)

// ErrQueueFull is returned when the async inbox cannot take another event.
var ErrQueueFull = errors.New("audit queue full")

// Publisher appends events directly to the store.
type Publisher struct {
	store Store
	now   func() time.Time
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	return p.store.Append(ctx, stamp(base, p.now))
}

func (p *Publisher) List(ctx context.Context, residentID id.ResidentID) ([]Event, error) {
	return p.store.ListByResident(ctx, residentID)
}

// ChannelPublisher hands events to a Worker without blocking the caller.
type ChannelPublisher struct {
	inbox chan<- Event
	now   func() time.Time
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox, now: time.Now}
}

func (p *ChannelPublisher) Emit(_ context.Context, base Event) error {
	select {
	case p.inbox <- stamp(base, p.now):
		return nil
	default:
		return ErrQueueFull
	}
}

func stamp(e Event, now func() time.Time) Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = now()
	}
	if e.ID == (id.EventID{}) {
		e.ID = id.NewEventID()
	}
	return e
}

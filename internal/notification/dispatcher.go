package notification

import (
	"context"
	"log/slog"
	"time"

	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
)

const defaultQueueSize = 64

// Dispatcher queues notices and sends them from Run.
type Dispatcher struct {
	sender Sender
	queue  chan Notice
	logger *slog.Logger
	now    func() time.Time
	onSent func(err error)
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Notice, n)
		}
	}
}

// WithSendHook observes the outcome of every send, e.g. for metrics.
func WithSendHook(fn func(err error)) Option {
	return func(d *Dispatcher) {
		d.onSent = fn
	}
}

func NewDispatcher(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Notice, defaultQueueSize),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NotifyPendingReview enqueues a notice without waiting for delivery.
func (d *Dispatcher) NotifyPendingReview(_ context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error {
	select {
	case d.queue <- NewNotice(residentID, profile, d.now()):
		return nil
	default:
		return ErrQueueFull
	}
}

// Run sends queued notices until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-d.queue:
			err := d.sender.Send(ctx, n)
			if err != nil {
				d.logger.ErrorContext(ctx, "failed to send pending review notice",
					"error", err,
					"notice_id", n.ID.String(),
					"resident_id", n.ResidentID.String(),
				)
			}
			if d.onSent != nil {
				d.onSent(err)
			}
		}
	}
}

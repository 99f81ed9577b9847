package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"residentportal/internal/profile/metrics"
	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
	"residentportal/pkg/platform/sentinel"
)

const (
	defaultPollInterval = 5 * time.Second
	maxConcurrentPolls  = 8
)

// Syncer polls the store for every open session so administrator decisions
// reach residents without a reload. Polls never overwrite unsaved edits.
type Syncer struct {
	svc      *Service
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type SyncerOption func(*Syncer)

func WithPollInterval(d time.Duration) SyncerOption {
	return func(y *Syncer) {
		if d > 0 {
			y.interval = d
		}
	}
}

func WithSyncerLogger(logger *slog.Logger) SyncerOption {
	return func(y *Syncer) {
		y.logger = logger
	}
}

func WithSyncerMetrics(m *metrics.Metrics) SyncerOption {
	return func(y *Syncer) {
		y.metrics = m
	}
}

func NewSyncer(svc *Service, opts ...SyncerOption) *Syncer {
	y := &Syncer{svc: svc, interval: defaultPollInterval, logger: slog.Default()}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Run polls at the configured interval until ctx is done.
func (y *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(y.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			y.PollOnce(ctx)
		}
	}
}

// PollOnce refreshes every open session once. A failure for one resident is
// logged and leaves that session untouched.
func (y *Syncer) PollOnce(ctx context.Context) {
	start := time.Now()
	residents := y.svc.OpenSessions()
	ctx, span := startSpan(ctx, spanSyncPass, id.ResidentID{}, attribute.Int(attrSessions, len(residents)))
	defer func() {
		endSpan(span, nil)
		y.metrics.ObserveSyncLatency(time.Since(start))
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPolls)
	for _, rid := range residents {
		g.Go(func() error {
			if err := y.pollResident(gctx, rid); err != nil {
				y.metrics.IncrementSyncPoll("failed")
				y.logger.WarnContext(gctx, "intake sync failed",
					"resident_id", rid.String(),
					"error", err,
				)
				return nil
			}
			y.metrics.IncrementSyncPoll("ok")
			return nil
		})
	}
	_ = g.Wait()
}

// pollResident reads status and profile concurrently, then applies them.
// The intake version is taken before reading so a step saved meanwhile is
// not overwritten by the older persisted copy.
func (y *Syncer) pollResident(ctx context.Context, residentID id.ResidentID) error {
	sess := y.svc.lookup(residentID)
	if sess == nil {
		return nil
	}
	seen := sess.ctrl.Store().Version()

	var (
		status  *models.StatusRecord
		profile *models.ResidentProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := y.svc.store.GetStatus(gctx, residentID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		status = st
		return nil
	})
	g.Go(func() error {
		p, err := y.svc.store.GetProfile(gctx, residentID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if y.svc.lookup(residentID) != sess {
		return nil
	}
	applied := y.svc.apply(ctx, residentID, sess, status, profile, seen)
	if len(applied) > 0 {
		y.logger.DebugContext(ctx, "intake reconciled",
			"resident_id", residentID.String(),
			"sections", applied,
		)
	}
	return nil
}

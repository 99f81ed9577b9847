package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"residentportal/internal/audit"
	"residentportal/internal/profile/metrics"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/store"
	"residentportal/internal/profile/validation"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
	"residentportal/pkg/requestcontext"
)

// SubmitResult reports the status written by a successful submission.
type SubmitResult struct {
	Status   models.StatusRecord `json:"status"`
	Notified bool                `json:"notified"`
}

// Orchestrator re-validates a full profile, writes it with its next status,
// and notifies reviewers of new submissions.
type Orchestrator struct {
	store          Store
	dispatcher     Dispatcher
	vctx           validation.Context
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type OrchestratorOption func(*Orchestrator)

func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithOrchestratorMetrics(m *metrics.Metrics) OrchestratorOption {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithOrchestratorAudit(publisher AuditPublisher) OrchestratorOption {
	return func(o *Orchestrator) {
		o.auditPublisher = publisher
	}
}

func NewOrchestrator(st Store, dispatcher Dispatcher, vctx validation.Context, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{store: st, dispatcher: dispatcher, vctx: vctx, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit checks profile and, if it is complete, writes it together with the
// status that follows current. Nothing is written when a check fails. A
// failed notification is logged and does not undo the writes.
func (o *Orchestrator) Submit(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile, current *models.ProfileStatus) (result *SubmitResult, err error) {
	start := time.Now()
	ctx, span := startSpan(ctx, spanSubmit, residentID)
	defer func() {
		endSpan(span, err)
		o.metrics.ObserveSubmitLatency(time.Since(start))
	}()

	if current != nil && current.IsReadOnly() {
		o.metrics.IncrementSubmission("forbidden")
		return nil, dErrors.New(dErrors.CodeForbidden, "profile cannot be resubmitted while "+current.String())
	}
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	if err := profile.CheckInvariants(); err != nil {
		o.metrics.IncrementSubmission("invalid")
		o.logger.ErrorContext(ctx, "profile failed invariant check",
			"resident_id", residentID.String(),
			"error", err,
		)
		return nil, err
	}
	if r := validation.Profile(profile, o.vctx); !r.IsValid() {
		o.metrics.IncrementSubmission("invalid")
		return nil, r.Err()
	}

	next := models.NextOnSubmission(current)
	record := models.StatusRecord{
		Status:    next,
		UpdatedBy: actorOr(ctx, "resident"),
		UpdatedAt: requestcontext.Now(ctx).UTC(),
	}
	span.SetAttributes(attribute.String(attrStatus, next.String()))

	err = o.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.UpsertProfile(ctx, residentID, profile); err != nil {
			return err
		}
		return tx.UpsertStatus(ctx, residentID, record)
	})
	if err != nil {
		o.metrics.IncrementSubmission("failed")
		o.logAudit(ctx, audit.EventProfileSubmissionFailed, residentID, "", "", err.Error())
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "status changed during submission, try again")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save submission")
	}

	o.metrics.IncrementSubmission("accepted")
	from := ""
	if current != nil {
		from = current.String()
	}
	o.logAudit(ctx, audit.EventProfileSubmitted, residentID, from, next.String(), "")

	result = &SubmitResult{Status: record}
	if next == models.StatusPendingInitialReview && o.dispatcher != nil {
		if nerr := o.dispatcher.NotifyPendingReview(ctx, residentID, profile); nerr != nil {
			o.metrics.IncrementNotification("dropped")
			o.logger.WarnContext(ctx, "pending review notification not queued",
				"resident_id", residentID.String(),
				"error", nerr,
			)
		} else {
			o.metrics.IncrementNotification("queued")
			result.Notified = true
			o.logAudit(ctx, audit.EventPendingReviewNotified, residentID, "", next.String(), "")
		}
	}
	return result, nil
}

func (o *Orchestrator) logAudit(ctx context.Context, event audit.EventName, residentID id.ResidentID, from, to, reason string) {
	attributes := []any{"resident_id", residentID.String()}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if to != "" {
		attributes = append(attributes, "from", from, "to", to)
	}
	if reason != "" {
		attributes = append(attributes, "reason", reason)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	o.logger.InfoContext(ctx, string(event), args...)
	if o.auditPublisher == nil {
		return
	}
	if err := o.auditPublisher.Emit(ctx, audit.Event{
		ResidentID: residentID,
		Actor:      actorOr(ctx, "resident"),
		Action:     event,
		From:       from,
		To:         to,
		Reason:     reason,
		RequestID:  requestcontext.RequestID(ctx),
	}); err != nil {
		o.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func actorOr(ctx context.Context, fallback string) string {
	if actor := requestcontext.Actor(ctx); actor != "" {
		return actor
	}
	return fallback
}

// Package service implements administrator review of submitted profiles.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"residentportal/internal/audit"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/store"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
	"residentportal/pkg/requestcontext"
)

// Store is the slice of profile persistence the review desk needs.
type Store interface {
	GetProfile(ctx context.Context, residentID id.ResidentID) (*models.ResidentProfile, error)
	GetStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error)
	ListByStatus(ctx context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error)
	RunInTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// AuditPublisher records status transitions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// AuditReader returns a resident's trail.
type AuditReader interface {
	ListByResident(ctx context.Context, residentID id.ResidentID) ([]audit.Event, error)
}

// Service applies administrator decisions to profile statuses.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	auditReader    AuditReader
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithAuditReader(reader AuditReader) Option {
	return func(s *Service) {
		s.auditReader = reader
	}
}

func New(st Store, opts ...Option) *Service {
	s := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var pendingStatuses = []models.ProfileStatus{
	models.StatusPendingInitialReview,
	models.StatusPendingUpdateRequest,
	models.StatusUpdateSubmittedPendingReview,
}

// ListPending returns every profile awaiting a decision, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]models.ResidentRecord, error) {
	return s.ListByStatus(ctx, pendingStatuses...)
}

// ListByStatus returns profiles in any of statuses; none means all.
func (s *Service) ListByStatus(ctx context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error) {
	records, err := s.store.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list profiles")
	}
	return records, nil
}

// Get returns one resident's status and profile.
func (s *Service) Get(ctx context.Context, residentID id.ResidentID) (*models.ResidentRecord, error) {
	status, err := s.store.GetStatus(ctx, residentID)
	if err != nil {
		return nil, s.lookupError(err)
	}
	profile, err := s.store.GetProfile(ctx, residentID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load profile")
	}
	return &models.ResidentRecord{ResidentID: residentID, Status: *status, Profile: profile}, nil
}

// History returns the audit trail for a resident.
func (s *Service) History(ctx context.Context, residentID id.ResidentID) ([]audit.Event, error) {
	if s.auditReader == nil {
		return nil, nil
	}
	events, err := s.auditReader.ListByResident(ctx, residentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load audit trail")
	}
	return events, nil
}

func (s *Service) Approve(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error) {
	return s.decide(ctx, residentID, models.StatusApproved, "")
}

// Reject requires a reason; the resident's next session starts empty.
func (s *Service) Reject(ctx context.Context, residentID id.ResidentID, reason string) (*models.StatusRecord, error) {
	return s.decide(ctx, residentID, models.StatusRejected, reason)
}

// RequireUpdate demands the resident amend the profile.
func (s *Service) RequireUpdate(ctx context.Context, residentID id.ResidentID, reason string) (*models.StatusRecord, error) {
	return s.decide(ctx, residentID, models.StatusRequiredToUpdate, reason)
}

func (s *Service) decide(ctx context.Context, residentID id.ResidentID, next models.ProfileStatus, reason string) (*models.StatusRecord, error) {
	reason = strings.TrimSpace(reason)
	if next != models.StatusApproved && reason == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "reason", "a reason is required")
	}

	record := models.StatusRecord{
		Status:    next,
		Reason:    reason,
		UpdatedBy: actorOr(ctx, "admin"),
		UpdatedAt: requestcontext.Now(ctx).UTC(),
	}
	var from models.ProfileStatus
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		current, err := tx.GetStatus(ctx, residentID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(next) {
			return dErrors.New(dErrors.CodeConflict, "cannot move profile from "+current.Status.String()+" to "+next.String())
		}
		from = current.Status
		if err := tx.UpsertStatus(ctx, residentID, record); err != nil {
			return err
		}
		if next == models.StatusRejected {
			return tx.UpsertProfile(ctx, residentID, &models.ResidentProfile{})
		}
		return nil
	})
	if err != nil {
		var de *dErrors.Error
		if !errors.Is(err, sentinel.ErrNotFound) && errors.As(err, &de) {
			return nil, err
		}
		return nil, s.lookupError(err)
	}

	s.logAudit(ctx, residentID, from.String(), next.String(), reason)
	return &record, nil
}

func (s *Service) lookupError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "no submission for resident")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "status changed by another update, try again")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update status")
}

func (s *Service) logAudit(ctx context.Context, residentID id.ResidentID, from, to, reason string) {
	event := audit.EventStatusChanged
	attributes := []any{"resident_id", residentID.String(), "from", from, "to", to}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		ResidentID: residentID,
		Actor:      actorOr(ctx, "admin"),
		Action:     event,
		From:       from,
		To:         to,
		Reason:     reason,
		RequestID:  requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "error", err, "resident_id", residentID.String())
	}
}

func actorOr(ctx context.Context, fallback string) string {
	if actor := requestcontext.Actor(ctx); actor != "" {
		return actor
	}
	return fallback
}

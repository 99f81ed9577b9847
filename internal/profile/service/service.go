// Package service runs resident intake sessions: it opens a wizard over the
// persisted profile, saves each step, submits the finished profile, and keeps
// open sessions in step with administrator decisions.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"residentportal/internal/audit"
	"residentportal/internal/profile/intake"
	"residentportal/internal/profile/metrics"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/validation"
	"residentportal/internal/profile/wizard"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
	"residentportal/pkg/requestcontext"
)

// View is what a resident sees of their session.
type View struct {
	ResidentID id.ResidentID           `json:"resident_id"`
	Step       wizard.Step             `json:"step"`
	Steps      []wizard.Step           `json:"steps"`
	Tab        wizard.Tab              `json:"tab,omitempty"`
	CanRetreat bool                    `json:"can_retreat"`
	ReadOnly   bool                    `json:"read_only"`
	Status     *models.StatusRecord    `json:"status,omitempty"`
	Profile    *models.ResidentProfile `json:"profile"`
	Unsaved    []intake.Section        `json:"unsaved_sections,omitempty"`
}

type session struct {
	mu     sync.Mutex
	ctrl   *wizard.Controller
	status *models.StatusRecord
}

func (s *session) view(residentID id.ResidentID) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &View{
		ResidentID: residentID,
		Step:       s.ctrl.Current(),
		Steps:      s.ctrl.Steps(),
		CanRetreat: s.ctrl.CanRetreat(),
		ReadOnly:   s.ctrl.ReadOnly(),
		Profile:    s.ctrl.Store().Snapshot(),
		Unsaved:    s.ctrl.Store().DirtySections(),
	}
	if v.Step == wizard.StepConfirmation {
		v.Tab = s.ctrl.Tab()
	}
	if s.status != nil {
		st := *s.status
		v.Status = &st
	}
	return v
}

// Service owns the open intake sessions, one per resident.
type Service struct {
	store          Store
	orchestrator   *Orchestrator
	vctx           validation.Context
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	clock          func() time.Time

	mu       sync.RWMutex
	sessions map[id.ResidentID]*session
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithClock fixes the time used for derived ages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.clock = now
	}
}

func New(st Store, orchestrator *Orchestrator, vctx validation.Context, opts ...Option) *Service {
	s := &Service{
		store:        st,
		orchestrator: orchestrator,
		vctx:         vctx,
		logger:       slog.Default(),
		clock:        time.Now,
		sessions:     make(map[id.ResidentID]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts or resumes the resident's session from the persisted profile.
// Rejection clears the persisted profile, so a Rejected resident resumes
// from whatever they saved since.
func (s *Service) Open(ctx context.Context, residentID id.ResidentID) (*View, error) {
	if residentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "resident is required")
	}
	if sess := s.lookup(residentID); sess != nil {
		return sess.view(residentID), nil
	}

	status, err := s.loadStatus(ctx, residentID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, residentID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load profile")
	}

	data := intake.New(intake.WithClock(s.clock))
	if profile != nil {
		data.Seed(profile)
	}
	sess := &session{
		ctrl:   wizard.New(residentID, data, s.store, s.vctx),
		status: status,
	}
	sess.ctrl.SetReadOnly(status != nil && status.Status.IsReadOnly())

	s.mu.Lock()
	if existing, ok := s.sessions[residentID]; ok {
		s.mu.Unlock()
		return existing.view(residentID), nil
	}
	s.sessions[residentID] = sess
	open := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetOpenSessions(open)
	s.logger.InfoContext(ctx, "intake session opened",
		"resident_id", residentID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return sess.view(residentID), nil
}

// View returns the current state of an open session.
func (s *Service) View(_ context.Context, residentID id.ResidentID) (*View, error) {
	sess, err := s.session(residentID)
	if err != nil {
		return nil, err
	}
	return sess.view(residentID), nil
}

// Advance completes the current step with in and saves it.
func (s *Service) Advance(ctx context.Context, residentID id.ResidentID, in wizard.StepInput) (*View, error) {
	sess, err := s.session(residentID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	step := sess.ctrl.Current()
	_, err = sess.ctrl.Advance(ctx, in)
	sess.mu.Unlock()
	if err != nil {
		outcome := "invalid"
		if dErrors.HasCode(err, dErrors.CodeUnavailable) {
			outcome = "failed"
			s.logger.ErrorContext(ctx, "failed to save intake step",
				"resident_id", residentID.String(),
				"step", string(step),
				"error", err,
			)
		}
		s.metrics.IncrementStepSave(string(step), outcome)
		return nil, err
	}
	s.metrics.IncrementStepSave(string(step), "saved")
	return sess.view(residentID), nil
}

func (s *Service) Retreat(_ context.Context, residentID id.ResidentID) (*View, error) {
	sess, err := s.session(residentID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	_, err = sess.ctrl.Retreat()
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sess.view(residentID), nil
}

// DeclareComposition sizes the dependent entries before they are filled in.
func (s *Service) DeclareComposition(_ context.Context, residentID id.ResidentID, childrenCount, otherCount int) (*View, error) {
	sess, err := s.session(residentID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	err = sess.ctrl.DeclareComposition(childrenCount, otherCount)
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sess.view(residentID), nil
}

func (s *Service) SelectTab(_ context.Context, residentID id.ResidentID, tab wizard.Tab) (*View, error) {
	sess, err := s.session(residentID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	err = sess.ctrl.SelectTab(tab)
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sess.view(residentID), nil
}

// Submit sends the session's profile for review. The status is read fresh
// from the store so an administrator decision made since Open is honored.
func (s *Service) Submit(ctx context.Context, residentID id.ResidentID) (*SubmitResult, error) {
	sess, err := s.session(residentID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.ctrl.Current() != wizard.StepConfirmation {
		return nil, dErrors.New(dErrors.CodeBadRequest, "complete every step before submitting")
	}
	status, err := s.loadStatus(ctx, residentID)
	if err != nil {
		return nil, err
	}
	var current *models.ProfileStatus
	if status != nil {
		current = &status.Status
	}

	data := sess.ctrl.Store()
	result, err := s.orchestrator.Submit(ctx, residentID, data.Snapshot(), current)
	if err != nil {
		return nil, err
	}
	data.MarkSaved(intake.AllSections...)
	rec := result.Status
	sess.status = &rec
	sess.ctrl.SetReadOnly(rec.Status.IsReadOnly())
	return result, nil
}

// RequestUpdate asks to amend an approved profile, reopening it for edits.
func (s *Service) RequestUpdate(ctx context.Context, residentID id.ResidentID, reason string) (*models.StatusRecord, error) {
	status, err := s.loadStatus(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if status == nil || !status.Status.CanTransitionTo(models.StatusPendingUpdateRequest) {
		return nil, dErrors.New(dErrors.CodeConflict, "only an approved profile can be reopened for update")
	}
	rec := models.StatusRecord{
		Status:    models.StatusPendingUpdateRequest,
		Reason:    reason,
		UpdatedBy: actorOr(ctx, "resident"),
		UpdatedAt: requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.UpsertStatus(ctx, residentID, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to request update")
	}
	s.logAudit(ctx, audit.EventUpdateRequested, residentID, status.Status.String(), rec.Status.String(), reason)

	if sess := s.lookup(residentID); sess != nil {
		sess.mu.Lock()
		sess.status = &rec
		sess.ctrl.SetReadOnly(false)
		sess.mu.Unlock()
	}
	return &rec, nil
}

// Close discards the session. Saved steps stay persisted.
func (s *Service) Close(ctx context.Context, residentID id.ResidentID) {
	s.mu.Lock()
	_, ok := s.sessions[residentID]
	delete(s.sessions, residentID)
	open := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.metrics.SetOpenSessions(open)
	s.logger.InfoContext(ctx, "intake session closed", "resident_id", residentID.String())
}

// OpenSessions lists residents with an open session.
func (s *Service) OpenSessions() []id.ResidentID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]id.ResidentID, 0, len(s.sessions))
	for rid := range s.sessions {
		out = append(out, rid)
	}
	return out
}

// apply folds polled state into a session. Entering Rejected clears the
// intake data. Otherwise the remote profile fills sections with no unsaved
// edits, provided the intake has not changed since version seen. A status
// older than the one the session holds is ignored.
func (s *Service) apply(ctx context.Context, residentID id.ResidentID, sess *session, status *models.StatusRecord, profile *models.ResidentProfile, seen uint64) []intake.Section {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.status != nil && (status == nil || status.UpdatedAt.Before(sess.status.UpdatedAt)) {
		status = sess.status
	}
	wasRejected := sess.status != nil && sess.status.Status == models.StatusRejected
	sess.status = status
	sess.ctrl.SetReadOnly(status != nil && status.Status.IsReadOnly())

	if status != nil && status.Status.ClearsIntake() && !wasRejected {
		sess.ctrl.Reset()
		s.logger.InfoContext(ctx, "intake cleared after rejection", "resident_id", residentID.String())
		return nil
	}
	if profile == nil {
		return nil
	}
	data := sess.ctrl.Store()
	if data.Version() != seen {
		s.logger.DebugContext(ctx, "intake changed during sync, keeping local data",
			"resident_id", residentID.String(),
		)
		return nil
	}
	applied := data.Reconcile(profile)
	sess.ctrl.Refresh()
	return applied
}

func (s *Service) loadStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error) {
	status, err := s.store.GetStatus(ctx, residentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load status")
	}
	return status, nil
}

func (s *Service) lookup(residentID id.ResidentID) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[residentID]
}

func (s *Service) session(residentID id.ResidentID) (*session, error) {
	if sess := s.lookup(residentID); sess != nil {
		return sess, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "no open intake session")
}

func (s *Service) logAudit(ctx context.Context, event audit.EventName, residentID id.ResidentID, from, to, reason string) {
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
		Actor:      actorOr(ctx, "resident"),
		Action:     event,
		From:       from,
		To:         to,
		Reason:     reason,
		RequestID:  requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

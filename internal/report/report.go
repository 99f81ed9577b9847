// Package report aggregates profile statuses and the approved population for
// the barangay dashboard.
package report

import (
	"context"
	"log/slog"
	"time"

	"residentportal/internal/address"
	"residentportal/internal/profile/age"
	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
)

// Store is the read side of profile persistence.
type Store interface {
	CountByStatus(ctx context.Context) (map[models.ProfileStatus]int, error)
	ListByStatus(ctx context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error)
}

// AddressResolver turns address codes into display names.
type AddressResolver interface {
	ResolveNames(ctx context.Context, addr models.Address) (*address.Resolved, error)
}

// StatusCounters are the dashboard tiles.
type StatusCounters struct {
	Approved                     int `json:"approved"`
	Rejected                     int `json:"rejected"`
	PendingInitialReview         int `json:"pending_initial_review"`
	PendingUpdateRequest         int `json:"pending_update_request"`
	UpdateSubmittedPendingReview int `json:"update_submitted_pending_review"`
	RequiredToUpdate             int `json:"required_to_update"`
	Pending                      int `json:"pending"`
	Total                        int `json:"total"`
}

// PopulationSummary counts members of approved households.
type PopulationSummary struct {
	Households       int                `json:"households"`
	Members          int                `json:"members"`
	ByAgeBucket      map[age.Bucket]int `json:"by_age_bucket"`
	ByGender         map[string]int     `json:"by_gender"`
	RegisteredVoters int                `json:"registered_voter_households"`
	ByBarangay       map[string]int     `json:"households_by_barangay"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// Service computes dashboard reports.
type Service struct {
	store    Store
	resolver AddressResolver
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAddressResolver enables barangay names in exports.
func WithAddressResolver(resolver AddressResolver) Option {
	return func(s *Service) {
		s.resolver = resolver
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(st Store, opts ...Option) *Service {
	s := &Service{store: st, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) StatusCounters(ctx context.Context) (*StatusCounters, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count statuses")
	}
	c := &StatusCounters{
		Approved:                     counts[models.StatusApproved],
		Rejected:                     counts[models.StatusRejected],
		PendingInitialReview:         counts[models.StatusPendingInitialReview],
		PendingUpdateRequest:         counts[models.StatusPendingUpdateRequest],
		UpdateSubmittedPendingReview: counts[models.StatusUpdateSubmittedPendingReview],
		RequiredToUpdate:             counts[models.StatusRequiredToUpdate],
	}
	c.Pending = c.PendingInitialReview + c.PendingUpdateRequest + c.UpdateSubmittedPendingReview
	for _, n := range counts {
		c.Total += n
	}
	return c, nil
}

func (s *Service) Population(ctx context.Context) (*PopulationSummary, error) {
	records, err := s.approved(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sum := &PopulationSummary{
		ByAgeBucket: make(map[age.Bucket]int),
		ByGender:    make(map[string]int),
		ByBarangay:  make(map[string]int),
		GeneratedAt: now.UTC(),
	}
	for _, rec := range records {
		sum.Households++
		sum.ByBarangay[rec.Profile.Head.Address.Barangay]++
		if rec.Profile.Census.IsRegisteredVoter == models.Yes {
			sum.RegisteredVoters++
		}
		for _, m := range membersOf(rec) {
			sum.Members++
			sum.ByAgeBucket[age.Classify(m.identity.BirthDate, now)]++
			sum.ByGender[genderLabel(m.identity)]++
		}
	}
	return sum, nil
}

func (s *Service) approved(ctx context.Context) ([]models.ResidentRecord, error) {
	records, err := s.store.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load approved profiles")
	}
	out := records[:0]
	for _, rec := range records {
		if rec.Profile != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

type member struct {
	role     string
	identity models.Identity
	relation string
}

func membersOf(rec models.ResidentRecord) []member {
	p := rec.Profile
	out := []member{{role: "Head", identity: p.Head.Identity}}
	if p.Spouse != nil {
		out = append(out, member{role: "Spouse", identity: p.Spouse.Identity})
	}
	for _, d := range p.Dependents {
		role := "Other"
		if d.Kind() == models.DependentKindChild {
			role = "Child"
		}
		info := d.Info()
		out = append(out, member{role: role, identity: info.Identity, relation: info.Relation})
	}
	return out
}

func genderLabel(i models.Identity) string {
	if i.Gender == "" {
		return "Unspecified"
	}
	return string(i.Gender)
}

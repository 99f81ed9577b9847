package address

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
)

// Service answers address lookups for the intake form and reports.
type Service struct {
	source Source
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Regions(ctx context.Context) ([]Place, error) {
	return s.list(ctx, LevelRegion, "")
}

func (s *Service) ProvincesOf(ctx context.Context, regionCode string) ([]Place, error) {
	return s.list(ctx, LevelProvince, regionCode)
}

func (s *Service) CitiesOf(ctx context.Context, provinceCode string) ([]Place, error) {
	return s.list(ctx, LevelCity, provinceCode)
}

func (s *Service) BarangaysOf(ctx context.Context, cityCode string) ([]Place, error) {
	return s.list(ctx, LevelBarangay, cityCode)
}

// ResolveNames looks up all four tiers of addr concurrently and checks that
// each code sits under its parent.
func (s *Service) ResolveNames(ctx context.Context, addr models.Address) (*Resolved, error) {
	var regions, provinces, cities, barangays []Place
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		regions, err = s.list(gctx, LevelRegion, "")
		return err
	})
	g.Go(func() (err error) {
		provinces, err = s.list(gctx, LevelProvince, addr.Region)
		return err
	})
	g.Go(func() (err error) {
		cities, err = s.list(gctx, LevelCity, addr.Province)
		return err
	})
	g.Go(func() (err error) {
		barangays, err = s.list(gctx, LevelBarangay, addr.City)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out Resolved
	for _, tier := range []struct {
		field  string
		places []Place
		code   string
		dst    *Place
	}{
		{"address.region", regions, addr.Region, &out.Region},
		{"address.province", provinces, addr.Province, &out.Province},
		{"address.city", cities, addr.City, &out.City},
		{"address.barangay", barangays, addr.Barangay, &out.Barangay},
	} {
		p, ok := findPlace(tier.places, tier.code)
		if !ok {
			return nil, dErrors.NewField(dErrors.CodeValidation, tier.field, "unknown code "+tier.code)
		}
		*tier.dst = p
	}
	return &out, nil
}

func (s *Service) list(ctx context.Context, level Level, parentCode string) ([]Place, error) {
	if level != LevelRegion && parentCode == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "address."+string(level), "parent code is required")
	}
	places, err := s.source.List(ctx, level, parentCode)
	switch {
	case err == nil:
		return places, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown "+string(level)+" parent "+parentCode)
	default:
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "address lookup failed",
			"level", string(level),
			"parent_code", parentCode,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "address reference unavailable")
	}
}

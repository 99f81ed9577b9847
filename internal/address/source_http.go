package address

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
)

// HTTPSource reads reference data from the address API:
//
//	GET /regions
//	GET /regions/{code}/provinces
//	GET /provinces/{code}/cities
//	GET /cities/{code}/barangays
type HTTPSource struct {
	client *resty.Client
}

// NewHTTPSource creates a resty-backed Source.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})
	return &HTTPSource{client: client}
}

func (s *HTTPSource) List(ctx context.Context, level Level, parentCode string) ([]Place, error) {
	path, err := listPath(level, parentCode)
	if err != nil {
		return nil, err
	}

	var places []Place
	req := s.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&places)
	if parentCode != "" {
		req.SetPathParam("code", parentCode)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("address api %s: %w: %w", path, sentinel.ErrUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("address api %s: %w", path, sentinel.ErrNotFound)
	case resp.IsError():
		return nil, fmt.Errorf("address api %s: status %d: %w", path, resp.StatusCode(), sentinel.ErrUnavailable)
	}
	return places, nil
}

func listPath(level Level, parentCode string) (string, error) {
	if level != LevelRegion && parentCode == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "parent code is required")
	}
	switch level {
	case LevelRegion:
		return "/regions", nil
	case LevelProvince:
		return "/regions/{code}/provinces", nil
	case LevelCity:
		return "/provinces/{code}/cities", nil
	case LevelBarangay:
		return "/cities/{code}/barangays", nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown address level")
	}
}

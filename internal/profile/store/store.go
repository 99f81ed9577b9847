// Package store persists resident profiles and their review status.
//
// Profiles and statuses live in separate records so a status change by an
// administrator never rewrites the profile. Submission writes both through
// RunInTx so either both land or neither does.
package store

import (
	"context"

	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
)

// Tx is the surface available inside RunInTx.
type Tx interface {
	GetStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error)
	UpsertProfile(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error
	UpsertStatus(ctx context.Context, residentID id.ResidentID, record models.StatusRecord) error
}

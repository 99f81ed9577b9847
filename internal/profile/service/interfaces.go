package service

import (
	"context"

	"residentportal/internal/audit"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/store"
	id "residentportal/pkg/domain"
)

// Store reads and writes persisted profiles and statuses.
type Store interface {
	GetProfile(ctx context.Context, residentID id.ResidentID) (*models.ResidentProfile, error)
	UpsertProfile(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error
	GetStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error)
	UpsertStatus(ctx context.Context, residentID id.ResidentID, record models.StatusRecord) error
	RunInTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// Dispatcher tells administrators that a profile awaits review. It must not
// block on delivery.
type Dispatcher interface {
	NotifyPendingReview(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

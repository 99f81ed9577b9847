package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
)

// Memory keeps profiles and statuses in maps. Writes made inside RunInTx are
// staged and applied only when the callback succeeds and no status read in
// the transaction was changed by a write outside it.
type Memory struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	profiles map[id.ResidentID]*models.ResidentProfile
	statuses map[id.ResidentID]models.StatusRecord
}

func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[id.ResidentID]*models.ResidentProfile),
		statuses: make(map[id.ResidentID]models.StatusRecord),
	}
}

func (m *Memory) GetProfile(_ context.Context, residentID id.ResidentID) (*models.ResidentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[residentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) UpsertProfile(_ context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error {
	if profile == nil {
		return dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[residentID] = profile.Clone()
	return nil
}

func (m *Memory) GetStatus(_ context.Context, residentID id.ResidentID) (*models.StatusRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.statuses[residentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) UpsertStatus(_ context.Context, residentID id.ResidentID, record models.StatusRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[residentID] = record
	return nil
}

// ListByStatus returns residents whose status is one of statuses, or every
// resident with a status when none are given. Oldest updates come first.
func (m *Memory) ListByStatus(_ context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error) {
	want := make(map[models.ProfileStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ResidentRecord, 0, len(m.statuses))
	for rid, rec := range m.statuses {
		if len(want) > 0 && !want[rec.Status] {
			continue
		}
		out = append(out, models.ResidentRecord{
			ResidentID: rid,
			Status:     rec,
			Profile:    m.profiles[rid].Clone(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status.UpdatedAt.Equal(out[j].Status.UpdatedAt) {
			return out[i].ResidentID.String() < out[j].ResidentID.String()
		}
		return out[i].Status.UpdatedAt.Before(out[j].Status.UpdatedAt)
	})
	return out, nil
}

// CountByStatus returns the number of residents in each status.
func (m *Memory) CountByStatus(_ context.Context) (map[models.ProfileStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[models.ProfileStatus]int)
	for _, rec := range m.statuses {
		counts[rec.Status]++
	}
	return counts, nil
}

// RunInTx serializes transactions and commits staged writes only when fn
// returns nil.
func (m *Memory) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	staged := &memoryTx{
		parent:   m,
		profiles: make(map[id.ResidentID]*models.ResidentProfile),
		statuses: make(map[id.ResidentID]models.StatusRecord),
		reads:    make(map[id.ResidentID]*models.StatusRecord),
	}
	if err := fn(staged); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for rid, seen := range staged.reads {
		current, ok := m.statuses[rid]
		if (seen == nil) == ok || (ok && !sameStatus(*seen, current)) {
			return fmt.Errorf("status of %s changed during transaction: %w", rid, sentinel.ErrConflict)
		}
	}
	for rid, p := range staged.profiles {
		m.profiles[rid] = p
	}
	for rid, rec := range staged.statuses {
		m.statuses[rid] = rec
	}
	return nil
}

func sameStatus(a, b models.StatusRecord) bool {
	return a.Status == b.Status && a.UpdatedBy == b.UpdatedBy && a.UpdatedAt.Equal(b.UpdatedAt)
}

type memoryTx struct {
	parent   *Memory
	profiles map[id.ResidentID]*models.ResidentProfile
	statuses map[id.ResidentID]models.StatusRecord
	// reads holds the committed status seen by the first read, nil if absent.
	reads map[id.ResidentID]*models.StatusRecord
}

func (t *memoryTx) GetStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error) {
	if rec, ok := t.statuses[residentID]; ok {
		return &rec, nil
	}
	rec, err := t.parent.GetStatus(ctx, residentID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	if _, seen := t.reads[residentID]; !seen {
		if rec != nil {
			cp := *rec
			t.reads[residentID] = &cp
		} else {
			t.reads[residentID] = nil
		}
	}
	return rec, err
}

func (t *memoryTx) UpsertProfile(_ context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error {
	if profile == nil {
		return dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	t.profiles[residentID] = profile.Clone()
	return nil
}

func (t *memoryTx) UpsertStatus(_ context.Context, residentID id.ResidentID, record models.StatusRecord) error {
	t.statuses[residentID] = record
	return nil
}

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/sentinel"
	txcontext "residentportal/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

const defaultTxTimeout = 5 * time.Second

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists profiles as JSONB and statuses as rows.
// Queries join a transaction carried in ctx when one is present.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, timeout: defaultTxTimeout}
}

// Migrate creates the tables if they do not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate profile schema: %w", err)
	}
	return nil
}

func (s *Postgres) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) GetProfile(ctx context.Context, residentID id.ResidentID) (*models.ResidentProfile, error) {
	var raw []byte
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT profile FROM resident_profiles WHERE resident_id = $1`,
		uuid.UUID(residentID),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	var p models.ResidentProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (s *Postgres) UpsertProfile(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error {
	if profile == nil {
		return dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO resident_profiles (resident_id, profile, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (resident_id) DO UPDATE SET
			profile = EXCLUDED.profile,
			updated_at = EXCLUDED.updated_at
	`, uuid.UUID(residentID), raw)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Postgres) GetStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error) {
	rec, err := scanStatus(s.q(ctx).QueryRowContext(ctx, `
		SELECT status, reason, updated_by, updated_at
		FROM profile_statuses
		WHERE resident_id = $1
	`, uuid.UUID(residentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get status: %w", err)
	}
	return rec, nil
}

func (s *Postgres) UpsertStatus(ctx context.Context, residentID id.ResidentID, record models.StatusRecord) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO profile_statuses (resident_id, status, reason, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (resident_id) DO UPDATE SET
			status = EXCLUDED.status,
			reason = EXCLUDED.reason,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`, uuid.UUID(residentID), int(record.Status), record.Reason, record.UpdatedBy, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

// ListByStatus returns residents whose status is one of statuses, or every
// resident with a status when none are given. Oldest updates come first.
func (s *Postgres) ListByStatus(ctx context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error) {
	codes := make([]int64, 0, len(statuses))
	for _, st := range statuses {
		codes = append(codes, int64(st))
	}
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT s.resident_id, s.status, s.reason, s.updated_by, s.updated_at, p.profile
		FROM profile_statuses s
		LEFT JOIN resident_profiles p ON p.resident_id = s.resident_id
		WHERE cardinality($1::smallint[]) = 0 OR s.status = ANY($1::smallint[])
		ORDER BY s.updated_at, s.resident_id
	`, pq.Array(codes))
	if err != nil {
		return nil, fmt.Errorf("list by status: %w", err)
	}
	defer rows.Close()

	var out []models.ResidentRecord
	for rows.Next() {
		var (
			rid    uuid.UUID
			status int
			rec    models.ResidentRecord
			raw    []byte
		)
		if err := rows.Scan(&rid, &status, &rec.Status.Reason, &rec.Status.UpdatedBy, &rec.Status.UpdatedAt, &raw); err != nil {
			return nil, fmt.Errorf("scan resident record: %w", err)
		}
		rec.ResidentID = id.ResidentID(rid)
		rec.Status.Status = models.ProfileStatus(status)
		if raw != nil {
			var p models.ResidentProfile
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, fmt.Errorf("decode profile: %w", err)
			}
			rec.Profile = &p
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list by status: %w", err)
	}
	return out, nil
}

// CountByStatus returns the number of residents in each status.
func (s *Postgres) CountByStatus(ctx context.Context) (map[models.ProfileStatus]int, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT status, COUNT(*) FROM profile_statuses GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	counts := make(map[models.ProfileStatus]int)
	for rows.Next() {
		var status, n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[models.ProfileStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	return counts, nil
}

// RunInTx runs fn inside a database transaction. A failing fn or commit
// rolls back every write made through the Tx.
func (s *Postgres) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(&postgresTx{store: s, tx: sqlTx}); err != nil {
		return asConflict(err)
	}
	if err := sqlTx.Commit(); err != nil {
		return asConflict(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// serializationFailure is raised when a repeatable read transaction touches
// a row another transaction changed after it started.
const serializationFailure = "40001"

func asConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == serializationFailure {
		return fmt.Errorf("%w: %w", sentinel.ErrConflict, err)
	}
	return err
}

// postgresTx routes calls through the open transaction whatever ctx the
// caller passes.
type postgresTx struct {
	store *Postgres
	tx    *sql.Tx
}

func (t *postgresTx) GetStatus(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error) {
	return t.store.GetStatus(txcontext.WithTx(ctx, t.tx), residentID)
}

func (t *postgresTx) UpsertProfile(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error {
	return t.store.UpsertProfile(txcontext.WithTx(ctx, t.tx), residentID, profile)
}

func (t *postgresTx) UpsertStatus(ctx context.Context, residentID id.ResidentID, record models.StatusRecord) error {
	return t.store.UpsertStatus(txcontext.WithTx(ctx, t.tx), residentID, record)
}

func scanStatus(row *sql.Row) (*models.StatusRecord, error) {
	var (
		status int
		rec    models.StatusRecord
	)
	if err := row.Scan(&status, &rec.Reason, &rec.UpdatedBy, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Status = models.ProfileStatus(status)
	return &rec, nil
}

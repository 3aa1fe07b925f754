package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mediastore/domain/model"
	"mediastore/domain/repository"
)

// EntitlementRepository stores grants in PostgreSQL.
type EntitlementRepository struct {
	db *sql.DB
}

func NewEntitlementRepository(db *sql.DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// EnsureEntitlementSchema creates the entitlements table when missing.
func EnsureEntitlementSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS entitlements (
    id BIGSERIAL PRIMARY KEY,
    tenant_id VARCHAR(64) NOT NULL,
    user_id VARCHAR(128) NOT NULL,
    entry_id VARCHAR(64) NOT NULL,
    status VARCHAR(16) NOT NULL,
    granted_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NULL,
    order_id VARCHAR(64) NULL,
    UNIQUE (tenant_id, user_id, entry_id)
)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create entitlements: %w", err)
	}
	return nil
}

const selectActiveEntitlement = `SELECT id, tenant_id, user_id, entry_id, status, granted_at, expires_at, order_id
FROM entitlements
WHERE tenant_id = $1 AND user_id = $2 AND entry_id = $3 AND status = $4
AND (expires_at IS NULL OR expires_at > $5)`

func (r *EntitlementRepository) FindActive(ctx context.Context, tenantID, userID, entryID string, now time.Time) (*model.Entitlement, error) {
	row := r.db.QueryRowContext(ctx, selectActiveEntitlement, tenantID, userID, entryID, string(model.EntitlementActive), now.UTC())
	return scanEntitlement(row)
}

func (r *EntitlementRepository) Grant(ctx context.Context, e *model.Entitlement) error {
	if e.GrantedAt.IsZero() {
		e.GrantedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = model.EntitlementActive
	}
	q := `INSERT INTO entitlements (tenant_id, user_id, entry_id, status, granted_at, expires_at, order_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (tenant_id, user_id, entry_id) DO UPDATE SET
    status = EXCLUDED.status,
    granted_at = EXCLUDED.granted_at,
    expires_at = EXCLUDED.expires_at,
    order_id = EXCLUDED.order_id
RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		e.TenantID, e.UserID, e.EntryID, string(e.Status), e.GrantedAt,
		nullTime(e.ExpiresAt), nullString(e.OrderID),
	).Scan(&e.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntitlement(row rowScanner) (*model.Entitlement, error) {
	e := &model.Entitlement{}
	var status string
	var expires sql.NullTime
	var orderID sql.NullString
	if err := row.Scan(&e.ID, &e.TenantID, &e.UserID, &e.EntryID, &status, &e.GrantedAt, &expires, &orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	e.Status = model.EntitlementStatus(status)
	if expires.Valid {
		t := expires.Time
		e.ExpiresAt = &t
	}
	if orderID.Valid {
		v := orderID.String
		e.OrderID = &v
	}
	return e, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

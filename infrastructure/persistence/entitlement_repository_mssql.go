package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mediastore/domain/model"
)

// EntitlementRepositoryMSSQL is the SQL Server twin used in production.
type EntitlementRepositoryMSSQL struct{ db *sql.DB }

func NewEntitlementRepositoryMSSQL(db *sql.DB) *EntitlementRepositoryMSSQL {
	return &EntitlementRepositoryMSSQL{db: db}
}

func EnsureEntitlementSchemaMSSQL(db *sql.DB) error {
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.entitlements') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[entitlements] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        tenant_id NVARCHAR(64) NOT NULL,
        user_id NVARCHAR(128) NOT NULL,
        entry_id NVARCHAR(64) NOT NULL,
        status NVARCHAR(16) NOT NULL,
        granted_at DATETIME2 NOT NULL,
        expires_at DATETIME2 NULL,
        order_id NVARCHAR(64) NULL
    );
    CREATE UNIQUE INDEX UX_entitlements_tenant_user_entry ON dbo.[entitlements](tenant_id, user_id, entry_id);
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create entitlements (mssql): %w", err)
	}
	return nil
}

const selectActiveEntitlementMSSQL = `SELECT id, tenant_id, user_id, entry_id, status, granted_at, expires_at, order_id
FROM dbo.[entitlements]
WHERE tenant_id=@p1 AND user_id=@p2 AND entry_id=@p3 AND status=@p4
AND (expires_at IS NULL OR expires_at > @p5)`

func (r *EntitlementRepositoryMSSQL) FindActive(ctx context.Context, tenantID, userID, entryID string, now time.Time) (*model.Entitlement, error) {
	row := r.db.QueryRowContext(ctx, selectActiveEntitlementMSSQL, tenantID, userID, entryID, string(model.EntitlementActive), now.UTC())
	return scanEntitlement(row)
}

func (r *EntitlementRepositoryMSSQL) Grant(ctx context.Context, e *model.Entitlement) error {
	if e.GrantedAt.IsZero() {
		e.GrantedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = model.EntitlementActive
	}
	q := `MERGE dbo.[entitlements] AS target
USING (VALUES (@p1, @p2, @p3)) AS src(tenant_id, user_id, entry_id)
ON target.tenant_id = src.tenant_id AND target.user_id = src.user_id AND target.entry_id = src.entry_id
WHEN MATCHED THEN UPDATE SET
    status=@p4,
    granted_at=@p5,
    expires_at=@p6,
    order_id=@p7
WHEN NOT MATCHED THEN
    INSERT (tenant_id, user_id, entry_id, status, granted_at, expires_at, order_id)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7)
OUTPUT inserted.id;`
	return r.db.QueryRowContext(ctx, q,
		e.TenantID, e.UserID, e.EntryID, string(e.Status), e.GrantedAt,
		nullTime(e.ExpiresAt), nullString(e.OrderID),
	).Scan(&e.ID)
}

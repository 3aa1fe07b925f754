package repository

import (
	"context"
	"time"

	"mediastore/domain/model"
)

type IEntitlement interface {
	// FindActive returns the ACTIVE, unexpired grant or ErrNotFound.
	FindActive(ctx context.Context, tenantID, userID, entryID string, now time.Time) (*model.Entitlement, error)
	Grant(ctx context.Context, entitlement *model.Entitlement) error
}

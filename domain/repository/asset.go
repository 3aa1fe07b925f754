package repository

import (
	"context"

	"mediastore/domain/model"
)

type IAsset interface {
	Save(ctx context.Context, asset *model.Asset) error
	FindReady(ctx context.Context, tenantID, entryID string, kind model.MediaKind) (*model.Asset, error)
	ExistsForEntry(ctx context.Context, tenantID, entryID string) (bool, error)
}

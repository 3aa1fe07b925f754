package repository

import (
	"context"
	"time"

	"mediastore/domain/model"
)

type IEntry interface {
	FindByTenantAndID(ctx context.Context, tenantID, id string) (*model.Entry, error)
	Save(ctx context.Context, entry *model.Entry) error
	// DeleteDraftByID removes the entry only while it is still DRAFT and
	// reports whether it did. An id that is gone or has left DRAFT is a no-op.
	DeleteDraftByID(ctx context.Context, id string) (bool, error)
	FindDraftsCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Entry, error)

	FindPublished(ctx context.Context, tenantID string, page, size int) ([]*model.Entry, int64, error)
	FindPublishedByID(ctx context.Context, tenantID, id string) (*model.Entry, error)
	FindPublishedByAuthor(ctx context.Context, tenantID, username string, entryType model.EntryType, page, size int) ([]*model.Entry, int64, error)
}

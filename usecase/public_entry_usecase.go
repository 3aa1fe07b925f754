package usecase

import (
	"context"
	"errors"
	"fmt"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/domain/repository"
)

const (
	DefaultPageSize = 48
	MaxPageSize     = 100
)

type IPublicEntryUsecase interface {
	List(ctx context.Context, tenantID string, page, size int) (*dto.PublicEntryPage, error)
	Get(ctx context.Context, tenantID, entryID string) (*dto.PublicEntry, error)
	ListByAuthor(ctx context.Context, tenantID, username, entryType string, page, size int) (*dto.PublicEntryPage, error)
}

type PublicEntryUsecase struct {
	entryRepo repository.IEntry
}

func NewPublicEntryUsecase(entryRepo repository.IEntry) *PublicEntryUsecase {
	return &PublicEntryUsecase{entryRepo: entryRepo}
}

// ClampPage normalizes paging input: page is zero based, size falls back to
// DefaultPageSize and is capped at MaxPageSize.
func ClampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

func (u *PublicEntryUsecase) List(ctx context.Context, tenantID string, page, size int) (*dto.PublicEntryPage, error) {
	page, size = ClampPage(page, size)
	entries, total, err := u.entryRepo.FindPublished(ctx, tenantID, page, size)
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	return toPublicEntryPage(entries, page, size, total), nil
}

// Get returns nil for anything that is not a published entry of the tenant.
func (u *PublicEntryUsecase) Get(ctx context.Context, tenantID, entryID string) (*dto.PublicEntry, error) {
	entry, err := u.entryRepo.FindPublishedByID(ctx, tenantID, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load published entry: %w", err)
	}
	out := toPublicEntry(entry)
	return &out, nil
}

// ListByAuthor filters by the catalogue type labels ("video", "entry", ...).
func (u *PublicEntryUsecase) ListByAuthor(ctx context.Context, tenantID, username, entryType string, page, size int) (*dto.PublicEntryPage, error) {
	t, ok := model.ParsePublicType(entryType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown entry type %q", ErrInvalidInput, entryType)
	}
	page, size = ClampPage(page, size)
	entries, total, err := u.entryRepo.FindPublishedByAuthor(ctx, tenantID, username, t, page, size)
	if err != nil {
		return nil, fmt.Errorf("list by author: %w", err)
	}
	return toPublicEntryPage(entries, page, size, total), nil
}

func toPublicEntryPage(entries []*model.Entry, page, size int, total int64) *dto.PublicEntryPage {
	items := make([]dto.PublicEntry, 0, len(entries))
	for _, e := range entries {
		items = append(items, toPublicEntry(e))
	}
	return &dto.PublicEntryPage{Items: items, Page: page, Size: size, Total: total}
}

func toPublicEntry(e *model.Entry) dto.PublicEntry {
	return dto.PublicEntry{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Type:            e.Type.PublicName(),
		AuthorUsername:  e.AuthorUsername,
		AuthorAvatarURL: e.AuthorAvatarURL,
		ThumbnailKey:    e.ThumbnailKey,
		PreviewKey:      e.PreviewKey,
		IsPaid:          e.IsPaid,
		PriceXlm:        e.Price,
		Tags:            e.Tags,
		DurationSec:     e.DurationSec,
		PublishedAt:     e.PublishedAt,
	}
}

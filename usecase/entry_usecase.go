package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/domain/repository"
	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/utils"

	"github.com/google/uuid"
)

// PresignTTL is the validity of an upload URL.
const PresignTTL = 15 * time.Minute

type IEntryUsecase interface {
	CreateEntry(ctx context.Context, tenantID string, owner model.Principal, req dto.CreateEntryRequest) (*model.Entry, error)
	InitiateUpload(ctx context.Context, tenantID, requesterID string, req dto.InitUploadRequest) (*dto.InitUploadResponse, error)
	FinalizeUpload(ctx context.Context, tenantID, requesterID string, req dto.FinalizeUploadRequest) (*dto.FinalizeUploadResponse, error)
	UpdateStatus(ctx context.Context, tenantID, requesterID, entryID, status string) (bool, error)
}

type EntryUsecase struct {
	entryRepo repository.IEntry
	assetRepo repository.IAsset
	userRepo  repository.IUser
	presigner repository.IPresigner
	events    repository.IAssetEvents
	broadcast func(*model.Entry)
	now       func() time.Time
	newID     func() string
}

// NewEntryUsecase wires the entry lifecycle. events may be nil when no event
// backend is configured.
func NewEntryUsecase(entryRepo repository.IEntry, assetRepo repository.IAsset, userRepo repository.IUser, presigner repository.IPresigner, events repository.IAssetEvents) *EntryUsecase {
	return &EntryUsecase{
		entryRepo: entryRepo,
		assetRepo: assetRepo,
		userRepo:  userRepo,
		presigner: presigner,
		events:    events,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithBroadcaster registers a callback invoked after every persisted status change.
func (u *EntryUsecase) WithBroadcaster(fn func(*model.Entry)) *EntryUsecase {
	u.broadcast = fn
	return u
}

func (u *EntryUsecase) CreateEntry(ctx context.Context, tenantID string, owner model.Principal, req dto.CreateEntryRequest) (*model.Entry, error) {
	entryType, ok := model.ParseEntryType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown entry type %q", ErrInvalidInput, req.Type)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.PriceXlm < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	username, avatar := u.authorSnapshot(ctx, owner)
	now := u.now().UTC()
	entry := &model.Entry{
		ID:              u.newID(),
		TenantID:        tenantID,
		UserID:          owner.ID,
		AuthorUsername:  username,
		AuthorAvatarURL: avatar,
		Title:           title,
		Description:     req.Description,
		Type:            entryType,
		Status:          model.EntryStatusDraft,
		Visibility:      model.VisibilityPrivate,
		IsPaid:          req.IsPaid,
		Price:           req.PriceXlm,
		Tags:            req.Tags,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.entryRepo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	logger.GetLogger().
		WithField("tenant", tenantID).
		WithField("entry_id", entry.ID).
		WithField("type", entryType).
		Info("Entry created")
	return entry, nil
}

// authorSnapshot prefers the stored user profile over token claims, which can
// lag behind by up to an access token lifetime.
func (u *EntryUsecase) authorSnapshot(ctx context.Context, owner model.Principal) (string, string) {
	if u.userRepo != nil && owner.Provider != "" {
		user, err := u.userRepo.FindByOAuth(ctx, owner.Provider, owner.ID)
		if err == nil {
			return user.Username, user.AvatarURL
		}
		if !errors.Is(err, repository.ErrNotFound) {
			logger.GetLogger().WithField("error", err).Warn("Author lookup failed, using token claims")
		}
	}
	return owner.Username, owner.AvatarURL
}

// ownedEntry loads the entry within the tenant and returns nil when it is
// missing or owned by someone else. Callers cannot tell the two apart.
func (u *EntryUsecase) ownedEntry(ctx context.Context, tenantID, requesterID, entryID string) (*model.Entry, error) {
	entry, err := u.entryRepo.FindByTenantAndID(ctx, tenantID, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.GetLogger().
			WithField("tenant", tenantID).
			WithField("entry_id", entryID).
			Debug("Entry not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if !entry.OwnedBy(requesterID) {
		logger.GetLogger().
			WithField("tenant", tenantID).
			WithField("entry_id", entryID).
			WithField("user_id", requesterID).
			Warn("Entry access by non-owner")
		return nil, nil
	}
	return entry, nil
}

// InitiateUpload returns a presigned PUT target, or nil when the requester
// may not upload to the entry.
func (u *EntryUsecase) InitiateUpload(ctx context.Context, tenantID, requesterID string, req dto.InitUploadRequest) (*dto.InitUploadResponse, error) {
	kind, ok := model.ParseMediaKind(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown media kind %q", ErrInvalidInput, req.Kind)
	}
	if strings.TrimSpace(req.ContentType) == "" {
		return nil, fmt.Errorf("%w: content type is required", ErrInvalidInput)
	}

	entry, err := u.ownedEntry(ctx, tenantID, requesterID, req.EntryID)
	if err != nil || entry == nil {
		return nil, err
	}
	if u.presigner == nil {
		return nil, errors.New("object storage is not configured")
	}

	key := StorageKey(entry.ID, kind, u.newID(), req.FileName)
	url, err := u.presigner.PresignPut(ctx, key, req.ContentType, PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &dto.InitUploadResponse{
		UploadID:     u.newID(),
		PresignedURL: url,
		StorageKey:   key,
	}, nil
}

// StorageKey builds "<public|private>/media/<entryId>/<kind>/<nonce>-<file>".
func StorageKey(entryID string, kind model.MediaKind, nonce, fileName string) string {
	return fmt.Sprintf("%s%s-%s", storagePrefix(entryID, kind), nonce, utils.SanitizeFileName(fileName))
}

func storagePrefix(entryID string, kind model.MediaKind) string {
	visibility := "private"
	if kind.IsPublic() {
		visibility = "public"
	}
	return fmt.Sprintf("%s/media/%s/%s/", visibility, entryID, strings.ToLower(string(kind)))
}

// FinalizeUpload records a completed upload. Thumbnail and preview keys are
// copied onto the entry. The entry status is left alone.
func (u *EntryUsecase) FinalizeUpload(ctx context.Context, tenantID, requesterID string, req dto.FinalizeUploadRequest) (*dto.FinalizeUploadResponse, error) {
	kind, ok := model.ParseMediaKind(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown media kind %q", ErrInvalidInput, req.Kind)
	}
	if !strings.HasPrefix(req.StorageKey, storagePrefix(req.EntryID, kind)) {
		return nil, fmt.Errorf("%w: storage key does not belong to entry", ErrInvalidInput)
	}

	entry, err := u.ownedEntry(ctx, tenantID, requesterID, req.EntryID)
	if err != nil || entry == nil {
		return nil, err
	}

	asset := &model.Asset{
		ID:            u.newID(),
		TenantID:      tenantID,
		EntryID:       entry.ID,
		StorageKey:    req.StorageKey,
		ContentType:   req.ContentType,
		FileName:      utils.SanitizeFileName(req.FileName),
		FileSizeBytes: req.FileSizeBytes,
		Kind:          kind,
		Status:        model.AssetStatusUploaded,
		CreatedAt:     u.now().UTC(),
	}
	if err := u.assetRepo.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}

	switch kind {
	case model.MediaKindThumbnail:
		entry.ThumbnailKey = asset.StorageKey
	case model.MediaKindPreview:
		entry.PreviewKey = asset.StorageKey
	}
	if kind.IsPublic() {
		entry.UpdatedAt = asset.CreatedAt
		if err := u.entryRepo.Save(ctx, entry); err != nil {
			return nil, fmt.Errorf("save entry: %w", err)
		}
	}

	u.publishUploaded(ctx, asset)

	return &dto.FinalizeUploadResponse{
		AssetID:    asset.ID,
		StorageKey: asset.StorageKey,
		Kind:       string(asset.Kind),
		Status:     string(asset.Status),
	}, nil
}

func (u *EntryUsecase) publishUploaded(ctx context.Context, asset *model.Asset) {
	if u.events == nil {
		return
	}
	if err := u.events.PublishAssetUploaded(ctx, asset); err != nil {
		logger.GetLogger().
			WithField("asset_id", asset.ID).
			WithField("error", err).
			Error("Failed to publish asset uploaded event")
	}
}

// UpdateStatus moves the entry along the lifecycle. It returns false with a
// nil error when the entry is missing or not owned, and ErrInvalidTransition
// when the move is not allowed. In both cases nothing is written.
func (u *EntryUsecase) UpdateStatus(ctx context.Context, tenantID, requesterID, entryID, status string) (bool, error) {
	target, ok := model.ParseEntryStatus(status)
	if !ok {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	entry, err := u.ownedEntry(ctx, tenantID, requesterID, entryID)
	if err != nil || entry == nil {
		return false, err
	}
	if !model.CanTransition(entry.Status, target) {
		logger.GetLogger().
			WithField("entry_id", entryID).
			WithField("from", entry.Status).
			WithField("to", target).
			Warn("Rejected status transition")
		return false, ErrInvalidTransition
	}

	now := u.now().UTC()
	entry.Status = target
	entry.UpdatedAt = now
	if target == model.EntryStatusPublished {
		entry.PublishedAt = &now
	}
	if err := u.entryRepo.Save(ctx, entry); err != nil {
		return false, fmt.Errorf("save entry: %w", err)
	}

	if u.broadcast != nil {
		u.broadcast(entry)
	}
	return true, nil
}

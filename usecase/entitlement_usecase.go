package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/domain/repository"
	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/utils"
)

type IEntitlementUsecase interface {
	CheckAccess(ctx context.Context, tenantID, requesterID, entryID string) (*dto.EntitlementResponse, error)
	Grant(ctx context.Context, tenantID string, req dto.GrantEntitlementRequest) (*model.Entitlement, error)
}

type EntitlementUsecase struct {
	entryRepo       repository.IEntry
	assetRepo       repository.IAsset
	entitlementRepo repository.IEntitlement
	now             func() time.Time
}

func NewEntitlementUsecase(entryRepo repository.IEntry, assetRepo repository.IAsset, entitlementRepo repository.IEntitlement) *EntitlementUsecase {
	return &EntitlementUsecase{
		entryRepo:       entryRepo,
		assetRepo:       assetRepo,
		entitlementRepo: entitlementRepo,
		now:             time.Now,
	}
}

// CheckAccess decides whether requesterID may fetch the private payload of
// the entry. A nil response is a denial. Missing entries, other tenants'
// entries, missing grants and unprocessed payloads all deny the same way.
// Visibility is deliberately not consulted.
func (u *EntitlementUsecase) CheckAccess(ctx context.Context, tenantID, requesterID, entryID string) (*dto.EntitlementResponse, error) {
	lg := logger.GetLogger().
		WithField("tenant", tenantID).
		WithField("entry_id", entryID).
		WithField("user_id", requesterID)

	entry, err := u.entryRepo.FindByTenantAndID(ctx, tenantID, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		lg.Debug("Entitlement denied: entry not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}

	if !entry.OwnedBy(requesterID) {
		now := u.now().UTC()
		grant, err := u.entitlementRepo.FindActive(ctx, tenantID, requesterID, entryID, now)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load entitlement: %w", err)
		}
		if !grant.ActiveAt(now) {
			lg.Debug("Entitlement denied: no active grant")
			return nil, nil
		}
	}

	asset, err := u.assetRepo.FindReady(ctx, tenantID, entryID, model.MediaKindFull)
	if errors.Is(err, repository.ErrNotFound) {
		lg.Debug("Entitlement denied: no ready payload")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}

	return &dto.EntitlementResponse{
		Allowed:            true,
		StorageKey:         asset.StorageKey,
		ContentType:        asset.ContentType,
		ContentDisposition: utils.ContentDisposition(asset.ContentType, asset.FileName),
		FileName:           asset.FileName,
	}, nil
}

// Grant records an ACTIVE entitlement on behalf of the purchase flow. The
// entry must exist within the tenant.
func (u *EntitlementUsecase) Grant(ctx context.Context, tenantID string, req dto.GrantEntitlementRequest) (*model.Entitlement, error) {
	if req.UserID == "" || req.EntryID == "" {
		return nil, fmt.Errorf("%w: userId and entryId are required", ErrInvalidInput)
	}
	now := u.now().UTC()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiresAt is in the past", ErrInvalidInput)
	}
	if _, err := u.entryRepo.FindByTenantAndID(ctx, tenantID, req.EntryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load entry: %w", err)
	}

	ent := &model.Entitlement{
		TenantID:  tenantID,
		UserID:    req.UserID,
		EntryID:   req.EntryID,
		Status:    model.EntitlementActive,
		GrantedAt: now,
		ExpiresAt: req.ExpiresAt,
		OrderID:   req.OrderID,
	}
	if err := u.entitlementRepo.Grant(ctx, ent); err != nil {
		return nil, fmt.Errorf("grant entitlement: %w", err)
	}
	logger.GetLogger().
		WithField("tenant", tenantID).
		WithField("entry_id", req.EntryID).
		WithField("user_id", req.UserID).
		Info("Entitlement granted")
	return ent, nil
}

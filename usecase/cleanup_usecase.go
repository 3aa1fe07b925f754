package usecase

import (
	"context"
	"fmt"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/repository"
	"mediastore/infrastructure/logger"
)

// DraftRetention is how long an assetless draft survives. It covers any
// upload still in flight.
const DraftRetention = 24 * time.Hour

const cleanupLockKey = "mediastore:cleanup:drafts"

type ICleanupUsecase interface {
	Sweep(ctx context.Context) (*dto.CleanupReport, error)
	ScheduledSweep(ctx context.Context, lockTTL time.Duration) (*dto.CleanupReport, error)
}

type CleanupUsecase struct {
	entryRepo repository.IEntry
	assetRepo repository.IAsset
	lock      repository.ILock
	now       func() time.Time
}

// NewCleanupUsecase builds the draft janitor. lock may be nil for a single
// replica deployment.
func NewCleanupUsecase(entryRepo repository.IEntry, assetRepo repository.IAsset, lock repository.ILock) *CleanupUsecase {
	return &CleanupUsecase{entryRepo: entryRepo, assetRepo: assetRepo, lock: lock, now: time.Now}
}

// Sweep deletes DRAFT entries older than DraftRetention that have no assets.
// Running it twice in a row deletes nothing the second time.
func (u *CleanupUsecase) Sweep(ctx context.Context) (*dto.CleanupReport, error) {
	lg := logger.GetLogger()
	started := u.now()
	cutoff := started.UTC().Add(-DraftRetention)

	drafts, err := u.entryRepo.FindDraftsCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find stale drafts: %w", err)
	}

	report := &dto.CleanupReport{CountsByType: map[string]int{}, Cutoff: cutoff}
	for _, entry := range drafts {
		hasAssets, err := u.assetRepo.ExistsForEntry(ctx, entry.TenantID, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("check assets for %s: %w", entry.ID, err)
		}
		if hasAssets {
			continue
		}
		deleted, err := u.entryRepo.DeleteDraftByID(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("delete entry %s: %w", entry.ID, err)
		}
		if !deleted {
			continue
		}
		report.DeletedCount++
		report.CountsByType[string(entry.Type)]++
	}
	report.DurationMs = u.now().Sub(started).Milliseconds()

	lg.WithField("deleted", report.DeletedCount).
		WithField("scanned", len(drafts)).
		WithField("counts_by_type", report.CountsByType).
		WithField("duration_ms", report.DurationMs).
		Info("Draft cleanup finished")
	return report, nil
}

// ScheduledSweep runs Sweep only if this replica wins the cleanup lock. A nil
// report with a nil error means another replica holds it.
func (u *CleanupUsecase) ScheduledSweep(ctx context.Context, lockTTL time.Duration) (*dto.CleanupReport, error) {
	if u.lock == nil {
		return u.Sweep(ctx)
	}
	acquired, err := u.lock.Acquire(ctx, cleanupLockKey, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire cleanup lock: %w", err)
	}
	if !acquired {
		logger.GetLogger().Debug("Cleanup lock held elsewhere, skipping sweep")
		return nil, nil
	}
	defer func() {
		if err := u.lock.Release(context.WithoutCancel(ctx), cleanupLockKey); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to release cleanup lock")
		}
	}()
	return u.Sweep(ctx)
}

package persistence

import (
	"context"
	"errors"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/domain/repository"

	"gorm.io/gorm"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) repository.IWaitlist {
	return &WaitlistRepository{db: db}
}

func MigrateWaitlist(db *gorm.DB) error {
	return db.AutoMigrate(&model.Founder{}, &model.Feedback{})
}

func (r *WaitlistRepository) FindFounderByEmail(ctx context.Context, email string) (*model.Founder, error) {
	var founder model.Founder
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&founder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &founder, nil
}

func (r *WaitlistRepository) CreateFounder(ctx context.Context, founder *model.Founder) error {
	return r.db.WithContext(ctx).Create(founder).Error
}

func (r *WaitlistRepository) AddFeedback(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *WaitlistRepository) CountFounders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Founder{}).Count(&n).Error
	return n, err
}

type dailyRow struct {
	Day   time.Time
	Total int64
}

// DailySignups returns per-day founder counts since the given time, oldest first.
func (r *WaitlistRepository) DailySignups(ctx context.Context, since time.Time) ([]dto.DailyCount, error) {
	var rows []dailyRow
	err := r.db.WithContext(ctx).
		Model(&model.Founder{}).
		Select("DATE(created_at) AS day, COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.DailyCount{Date: row.Day.Format("2006-01-02"), Count: row.Total})
	}
	return out, nil
}

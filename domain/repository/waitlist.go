package repository

import (
	"context"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
)

type IWaitlist interface {
	FindFounderByEmail(ctx context.Context, email string) (*model.Founder, error)
	CreateFounder(ctx context.Context, founder *model.Founder) error
	AddFeedback(ctx context.Context, feedback *model.Feedback) error
	CountFounders(ctx context.Context) (int64, error)
	DailySignups(ctx context.Context, since time.Time) ([]dto.DailyCount, error)
}

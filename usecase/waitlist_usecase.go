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
)

// StatsWindowDays is the number of days reported by Stats, today included.
const StatsWindowDays = 15

type IWaitlistUsecase interface {
	Register(ctx context.Context, tenantID, remoteIP string, req dto.WaitlistRequest) error
	Stats(ctx context.Context) (*dto.WaitlistStats, error)
}

type WaitlistUsecase struct {
	repo    repository.IWaitlist
	captcha repository.ICaptcha
	now     func() time.Time
}

func NewWaitlistUsecase(repo repository.IWaitlist, captcha repository.ICaptcha) *WaitlistUsecase {
	return &WaitlistUsecase{repo: repo, captcha: captcha, now: time.Now}
}

// Register adds a founder after a successful CAPTCHA. Re-registering an
// existing email only appends the feedback.
func (u *WaitlistUsecase) Register(ctx context.Context, tenantID, remoteIP string, req dto.WaitlistRequest) error {
	ok, err := u.captcha.Verify(ctx, req.CaptchaResponse, remoteIP)
	if err != nil {
		return fmt.Errorf("verify captcha: %w", err)
	}
	if !ok {
		return ErrCaptchaInvalid
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	founder, err := u.repo.FindFounderByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		founder = &model.Founder{TenantID: tenantID, Email: email, CreatedAt: u.now().UTC()}
		if err := u.repo.CreateFounder(ctx, founder); err != nil {
			return fmt.Errorf("create founder: %w", err)
		}
		logger.GetLogger().WithField("tenant", tenantID).Info("Founder joined waitlist")
	case err != nil:
		return fmt.Errorf("find founder: %w", err)
	}

	feedback := strings.TrimSpace(req.Feedback)
	if feedback == "" {
		return nil
	}
	if err := u.repo.AddFeedback(ctx, &model.Feedback{FounderID: founder.ID, Message: feedback, CreatedAt: u.now().UTC()}); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

// Stats reports the total founder count and, for each of the last
// StatsWindowDays days, the cumulative count at the end of that day.
func (u *WaitlistUsecase) Stats(ctx context.Context) (*dto.WaitlistStats, error) {
	total, err := u.repo.CountFounders(ctx)
	if err != nil {
		return nil, fmt.Errorf("count founders: %w", err)
	}

	today := u.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(StatsWindowDays - 1))
	signups, err := u.repo.DailySignups(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily signups: %w", err)
	}
	perDay := make(map[string]int64, len(signups))
	for _, s := range signups {
		perDay[s.Date] = s.Count
	}

	daily := make([]dto.DailyCount, StatsWindowDays)
	running := total
	for i := StatsWindowDays - 1; i >= 0; i-- {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		daily[i] = dto.DailyCount{Date: date, Count: running}
		running -= perDay[date]
	}
	return &dto.WaitlistStats{Total: total, Daily: daily}, nil
}

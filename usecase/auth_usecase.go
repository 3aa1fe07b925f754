package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediastore/domain/model"
	"mediastore/domain/repository"
	"mediastore/infrastructure/logger"

	"github.com/google/uuid"
)

// HandshakeTTL bounds the age of a redeemable handshake code. The code
// travels in a redirect URL so it has to die quickly.
const HandshakeTTL = 2 * time.Minute

type IAuthUsecase interface {
	BeginHandshake(ctx context.Context, identity model.ExternalIdentity) (string, error)
	Redeem(ctx context.Context, code string) (*model.User, error)
}

type AuthUsecase struct {
	userRepo repository.IUser
	now      func() time.Time
	newCode  func() string
	newID    func() string
}

func NewAuthUsecase(userRepo repository.IUser) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		now:      time.Now,
		newCode:  uuid.NewString,
		newID:    uuid.NewString,
	}
}

// BeginHandshake upserts the user behind an external login and stores a fresh
// single-use code on it. A malformed identity is a wiring bug and is returned
// as ErrInvalidIdentity.
func (u *AuthUsecase) BeginHandshake(ctx context.Context, identity model.ExternalIdentity) (string, error) {
	canonical, err := identity.Canonical()
	if err != nil {
		return "", err
	}

	now := u.now().UTC()
	user, err := u.userRepo.FindByOAuth(ctx, canonical.Provider, canonical.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = &model.User{
			ID:            u.newID(),
			OAuthProvider: canonical.Provider,
			OAuthUserID:   canonical.ID,
			CreatedAt:     now,
		}
	case err != nil:
		return "", fmt.Errorf("find user: %w", err)
	}

	user.Username = canonical.Username
	user.DisplayName = canonical.DisplayName
	user.AvatarURL = canonical.AvatarURL
	user.FollowersCount = canonical.FollowerCount
	user.LastLoginAt = now

	code := u.newCode()
	user.TempHandshakeCode = &code
	user.TempHandshakeCreatedAt = &now

	if err := u.userRepo.Save(ctx, user); err != nil {
		return "", fmt.Errorf("save user: %w", err)
	}

	logger.GetLogger().
		WithField("provider", canonical.Provider).
		WithField("user_id", user.ID).
		Info("Handshake started")
	return code, nil
}

// Redeem consumes a handshake code. The code is cleared on every lookup hit,
// expired or not, so it can never be replayed. A nil user means no session.
func (u *AuthUsecase) Redeem(ctx context.Context, code string) (*model.User, error) {
	lg := logger.GetLogger()
	if code == "" {
		return nil, nil
	}

	user, err := u.userRepo.FindByHandshakeCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		lg.Debug("Handshake code not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find handshake: %w", err)
	}

	expired := user.TempHandshakeCreatedAt == nil ||
		u.now().Sub(*user.TempHandshakeCreatedAt) > HandshakeTTL

	user.ClearHandshake()
	if err := u.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("clear handshake: %w", err)
	}

	if expired {
		lg.WithField("user_id", user.ID).Warn("Handshake code expired")
		return nil, nil
	}
	if user.Blocked {
		lg.WithField("user_id", user.ID).Warn("Handshake redeemed by blocked user")
		return nil, nil
	}
	return user, nil
}

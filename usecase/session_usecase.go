package usecase

import (
	"context"
	"fmt"

	"mediastore/domain/model"
	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/token"
)

type Session struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

type ISessionUsecase interface {
	CreateSession(ctx context.Context, code string) (*Session, error)
	Refresh(refreshToken string) (string, bool)
}

type SessionUsecase struct {
	auth   IAuthUsecase
	issuer token.ITokenIssuer
}

func NewSessionUsecase(auth IAuthUsecase, issuer token.ITokenIssuer) *SessionUsecase {
	return &SessionUsecase{auth: auth, issuer: issuer}
}

// CreateSession trades a handshake code for an access/refresh token pair.
// A nil session means the code was unknown, expired or already used.
func (u *SessionUsecase) CreateSession(ctx context.Context, code string) (*Session, error) {
	user, err := u.auth.Redeem(ctx, code)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	principal := user.Principal()
	access, err := u.issuer.IssueAccess(principal)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := u.issuer.IssueRefresh(principal)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh re-issues an access token from the claims of a valid refresh token
// without going back to the identity provider.
func (u *SessionUsecase) Refresh(refreshToken string) (string, bool) {
	if refreshToken == "" || !u.issuer.Verify(refreshToken) {
		return "", false
	}
	principal, err := u.issuer.Claims(refreshToken)
	if err != nil {
		return "", false
	}
	access, err := u.issuer.IssueAccess(principal)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to issue access token")
		return "", false
	}
	return access, true
}

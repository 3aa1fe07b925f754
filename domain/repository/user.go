package repository

import (
	"context"

	"mediastore/domain/model"
)

type IUser interface {
	FindByOAuth(ctx context.Context, provider, oauthUserID string) (*model.User, error)
	FindByHandshakeCode(ctx context.Context, code string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

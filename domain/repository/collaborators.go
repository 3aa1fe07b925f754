package repository

import (
	"context"
	"time"

	"mediastore/domain/model"
)

// IPresigner issues time-limited direct upload URLs against object storage.
type IPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

type ICaptcha interface {
	Verify(ctx context.Context, response, remoteIP string) (bool, error)
}

// IAssetEvents notifies the processing pipeline about finalized uploads.
type IAssetEvents interface {
	PublishAssetUploaded(ctx context.Context, asset *model.Asset) error
}

// ILock is a cross-replica mutual exclusion primitive.
type ILock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type IIdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code, state string) (model.ExternalIdentity, error)
}

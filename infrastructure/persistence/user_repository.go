package persistence

import (
	"context"
	"errors"

	"mediastore/domain/model"
	"mediastore/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.IUser {
	return &UserRepository{collection: db.Collection(usersCollection)}
}

func (r *UserRepository) FindByOAuth(ctx context.Context, provider, oauthUserID string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"oauthProvider": provider, "oauthUserId": oauthUserID})
}

func (r *UserRepository) FindByHandshakeCode(ctx context.Context, code string) (*model.User, error) {
	if code == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"tempHandshakeCode": code})
}

// Save replaces the whole document, so cleared handshake fields are removed.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

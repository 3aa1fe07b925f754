package persistence

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"mediastore/infrastructure/configuration"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoDb connects using Database.Mongo.URI, or builds one from host and credentials.
func NewMongoDb(cfg configuration.Db) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI(cfg)).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return client, nil
}

func mongoURI(cfg configuration.Db) string {
	if cfg.URI != "" {
		return cfg.URI
	}
	u := &url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

// EnsureMongoIndexes creates the lookups the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bsonKeys("oauthProvider", "oauthUserId"), Options: options.Index().SetUnique(true)},
			{Keys: bsonKeys("tempHandshakeCode"), Options: options.Index().SetSparse(true)},
		},
		entriesCollection: {
			{Keys: bsonKeys("tenantId", "status", "publishedAt")},
			{Keys: bsonKeys("status", "createdAt")},
			{Keys: bsonKeys("tenantId", "authorUsername")},
		},
		assetsCollection: {
			{Keys: bsonKeys("tenantId", "entryId", "kind", "status")},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

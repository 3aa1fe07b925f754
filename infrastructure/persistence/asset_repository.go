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

type AssetRepository struct {
	collection *mongo.Collection
}

func NewAssetRepository(db *mongo.Database) repository.IAsset {
	return &AssetRepository{collection: db.Collection(assetsCollection)}
}

func (r *AssetRepository) Save(ctx context.Context, asset *model.Asset) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": asset.ID}, asset, options.Replace().SetUpsert(true))
	return err
}

// FindReady returns the newest READY asset of the kind.
func (r *AssetRepository) FindReady(ctx context.Context, tenantID, entryID string, kind model.MediaKind) (*model.Asset, error) {
	var asset model.Asset
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := r.collection.FindOne(ctx, readyAssetFilter(tenantID, entryID, kind), opts).Decode(&asset); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepository) ExistsForEntry(ctx context.Context, tenantID, entryID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"tenantId": tenantID, "entryId": entryID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

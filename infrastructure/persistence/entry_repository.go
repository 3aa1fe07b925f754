package persistence

import (
	"context"
	"errors"
	"time"

	"mediastore/domain/model"
	"mediastore/domain/repository"
	"mediastore/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type EntryRepository struct {
	collection *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) repository.IEntry {
	return &EntryRepository{collection: db.Collection(entriesCollection)}
}

func (r *EntryRepository) FindByTenantAndID(ctx context.Context, tenantID, id string) (*model.Entry, error) {
	return r.findOne(ctx, entryByTenantFilter(tenantID, id))
}

func (r *EntryRepository) Save(ctx context.Context, entry *model.Entry) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry, options.Replace().SetUpsert(true))
	return err
}

func (r *EntryRepository) DeleteDraftByID(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, draftByIDFilter(id))
	if err != nil {
		return false, err
	}
	if res.DeletedCount == 0 {
		logger.GetLogger().WithField("entry_id", id).Debug("Entry gone or no longer a draft")
		return false, nil
	}
	return true, nil
}

func (r *EntryRepository) FindDraftsCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Entry, error) {
	return r.findMany(ctx, staleDraftsFilter(cutoff), options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *EntryRepository) FindPublished(ctx context.Context, tenantID string, page, size int) ([]*model.Entry, int64, error) {
	return r.findPublishedPage(ctx, publishedFilter(tenantID), page, size)
}

func (r *EntryRepository) FindPublishedByAuthor(ctx context.Context, tenantID, username string, entryType model.EntryType, page, size int) ([]*model.Entry, int64, error) {
	return r.findPublishedPage(ctx, publishedByAuthorFilter(tenantID, username, entryType), page, size)
}

// findPublishedPage returns one page of filter's matches, newest first, plus the total match count.
func (r *EntryRepository) findPublishedPage(ctx context.Context, filter bson.M, page, size int) ([]*model.Entry, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))
	entries, err := r.findMany(ctx, filter, opts)
	return entries, total, err
}

func (r *EntryRepository) FindPublishedByID(ctx context.Context, tenantID, id string) (*model.Entry, error) {
	f := publishedFilter(tenantID)
	f["_id"] = id
	return r.findOne(ctx, f)
}

func (r *EntryRepository) findOne(ctx context.Context, filter bson.M) (*model.Entry, error) {
	var entry model.Entry
	if err := r.collection.FindOne(ctx, filter).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*model.Entry, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	var entries []*model.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"mediastore/domain/model"
)

func TestStaleDraftsFilter(t *testing.T) {
	cutoff := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, bson.M{
		"status":    "DRAFT",
		"createdAt": bson.M{"$lt": cutoff},
	}, staleDraftsFilter(cutoff))
}

func TestDraftByIDFilter(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "e1", "status": "DRAFT"}, draftByIDFilter("e1"))
}

func TestPublishedByAuthorFilter(t *testing.T) {
	assert.Equal(t, bson.M{
		"tenantId":       "earnlumens",
		"status":         "PUBLISHED",
		"authorUsername": "ada",
	}, publishedByAuthorFilter("earnlumens", "ada", ""))

	withType := publishedByAuthorFilter("earnlumens", "ada", model.EntryTypeVideo)
	assert.Equal(t, "VIDEO", withType["type"])
}

func TestReadyAssetFilter(t *testing.T) {
	assert.Equal(t, bson.M{
		"tenantId": "t1",
		"entryId":  "e1",
		"kind":     "FULL",
		"status":   "READY",
	}, readyAssetFilter("t1", "e1", model.MediaKindFull))
}

func TestBsonKeys(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "a", Value: 1}, {Key: "b", Value: 1}}, bsonKeys("a", "b"))
}

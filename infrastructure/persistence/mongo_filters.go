package persistence

import (
	"time"

	"mediastore/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	usersCollection   = "users"
	entriesCollection = "entries"
	assetsCollection  = "assets"
)

func bsonKeys(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}

func entryByTenantFilter(tenantID, id string) bson.M {
	return bson.M{"_id": id, "tenantId": tenantID}
}

// draftByIDFilter only matches while the entry is still a draft, so an entry
// published after the cleanup scan survives the delete.
func draftByIDFilter(id string) bson.M {
	return bson.M{"_id": id, "status": string(model.EntryStatusDraft)}
}

func staleDraftsFilter(cutoff time.Time) bson.M {
	return bson.M{
		"status":    string(model.EntryStatusDraft),
		"createdAt": bson.M{"$lt": cutoff},
	}
}

func publishedFilter(tenantID string) bson.M {
	return bson.M{"tenantId": tenantID, "status": string(model.EntryStatusPublished)}
}

func publishedByAuthorFilter(tenantID, username string, entryType model.EntryType) bson.M {
	f := publishedFilter(tenantID)
	f["authorUsername"] = username
	if entryType != "" {
		f["type"] = string(entryType)
	}
	return f
}

func readyAssetFilter(tenantID, entryID string, kind model.MediaKind) bson.M {
	return bson.M{
		"tenantId": tenantID,
		"entryId":  entryID,
		"kind":     string(kind),
		"status":   string(model.AssetStatusReady),
	}
}

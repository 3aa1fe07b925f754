package model

import (
	"strings"
	"time"
)

type MediaKind string

const (
	MediaKindThumbnail MediaKind = "THUMBNAIL"
	MediaKindPreview   MediaKind = "PREVIEW"
	MediaKindFull      MediaKind = "FULL"
)

func ParseMediaKind(s string) (MediaKind, bool) {
	switch k := MediaKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case MediaKindThumbnail, MediaKindPreview, MediaKindFull:
		return k, true
	}
	return "", false
}

// IsPublic reports whether assets of this kind live under the CDN-served prefix.
func (k MediaKind) IsPublic() bool {
	return k == MediaKindThumbnail || k == MediaKindPreview
}

type AssetStatus string

const (
	AssetStatusUploaded AssetStatus = "UPLOADED"
	AssetStatusReady    AssetStatus = "READY"
)

type Asset struct {
	ID            string      `json:"id" bson:"_id"`
	TenantID      string      `json:"tenantId" bson:"tenantId"`
	EntryID       string      `json:"entryId" bson:"entryId"`
	StorageKey    string      `json:"r2Key" bson:"r2Key"`
	ContentType   string      `json:"contentType" bson:"contentType"`
	FileName      string      `json:"fileName" bson:"fileName"`
	FileSizeBytes int64       `json:"fileSizeBytes" bson:"fileSizeBytes"`
	Kind          MediaKind   `json:"kind" bson:"kind"`
	Status        AssetStatus `json:"status" bson:"status"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
}

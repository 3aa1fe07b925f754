package dto

import "time"

const EventAssetUploaded = "asset.uploaded"

// AssetUploadedEvent is published after an upload is finalized.
type AssetUploadedEvent struct {
	Type          string    `json:"type"`
	AssetID       string    `json:"assetId"`
	TenantID      string    `json:"tenantId"`
	EntryID       string    `json:"entryId"`
	StorageKey    string    `json:"storageKey"`
	ContentType   string    `json:"contentType"`
	Kind          string    `json:"kind"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	OccurredAt    time.Time `json:"occurredAt"`
}

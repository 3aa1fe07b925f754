package dto

type InitUploadRequest struct {
	EntryID       string `json:"entryId" binding:"required"`
	FileName      string `json:"fileName"`
	ContentType   string `json:"contentType" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
	FileSizeBytes int64  `json:"fileSizeBytes" binding:"gte=0"`
}

type InitUploadResponse struct {
	UploadID     string `json:"uploadId"`
	PresignedURL string `json:"presignedUrl"`
	StorageKey   string `json:"storageKey"`
}

type FinalizeUploadRequest struct {
	UploadID      string `json:"uploadId" binding:"required"`
	EntryID       string `json:"entryId" binding:"required"`
	StorageKey    string `json:"storageKey" binding:"required"`
	ContentType   string `json:"contentType" binding:"required"`
	FileName      string `json:"fileName"`
	FileSizeBytes int64  `json:"fileSizeBytes" binding:"gte=0"`
	Kind          string `json:"kind" binding:"required"`
}

type FinalizeUploadResponse struct {
	AssetID    string `json:"assetId"`
	StorageKey string `json:"storageKey"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
}

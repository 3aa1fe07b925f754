package dto

import "time"

type CreateEntryRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	Type        string   `json:"type" binding:"required"`
	IsPaid      bool     `json:"isPaid"`
	PriceXlm    float64  `json:"priceXlm" binding:"gte=0"`
	Tags        []string `json:"tags"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PublicEntry is the catalogue projection. It is built from the entry's
// denormalized author and asset keys only.
type PublicEntry struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	AuthorUsername  string     `json:"authorUsername"`
	AuthorAvatarURL string     `json:"authorAvatarUrl"`
	ThumbnailKey    string     `json:"thumbnailR2Key,omitempty"`
	PreviewKey      string     `json:"previewR2Key,omitempty"`
	IsPaid          bool       `json:"isPaid"`
	PriceXlm        float64    `json:"priceXlm"`
	Tags            []string   `json:"tags,omitempty"`
	DurationSec     int        `json:"durationSec,omitempty"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
}

type PublicEntryPage struct {
	Items []PublicEntry `json:"items"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Total int64         `json:"total"`
}

package model

import (
	"strings"
	"time"
)

type EntryType string

const (
	EntryTypeVideo   EntryType = "VIDEO"
	EntryTypeAudio   EntryType = "AUDIO"
	EntryTypeImage   EntryType = "IMAGE"
	EntryTypeArticle EntryType = "ARTICLE"
	EntryTypeFile    EntryType = "FILE"
)

var entryTypes = map[EntryType]struct{}{
	EntryTypeVideo:   {},
	EntryTypeAudio:   {},
	EntryTypeImage:   {},
	EntryTypeArticle: {},
	EntryTypeFile:    {},
}

// ParseEntryType accepts the enum name in any case.
func ParseEntryType(s string) (EntryType, bool) {
	t := EntryType(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := entryTypes[t]
	return t, ok
}

// PublicName is the lowercase label used by the public catalogue.
// Articles are exposed as "entry".
func (t EntryType) PublicName() string {
	if t == EntryTypeArticle {
		return "entry"
	}
	return strings.ToLower(string(t))
}

// ParsePublicType is the inverse of PublicName.
func ParsePublicType(s string) (EntryType, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "entry":
		return EntryTypeArticle, true
	case "article":
		return "", false
	}
	return ParseEntryType(name)
}

type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusInReview  EntryStatus = "IN_REVIEW"
	EntryStatusApproved  EntryStatus = "APPROVED"
	EntryStatusRejected  EntryStatus = "REJECTED"
	EntryStatusPublished EntryStatus = "PUBLISHED"
)

// EntryStatuses lists every lifecycle state.
var EntryStatuses = []EntryStatus{
	EntryStatusDraft,
	EntryStatusInReview,
	EntryStatusApproved,
	EntryStatusRejected,
	EntryStatusPublished,
}

func ParseEntryStatus(s string) (EntryStatus, bool) {
	st := EntryStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range EntryStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// entryTransitions is the adjacency table of the lifecycle. PUBLISHED has no
// outbound edges.
var entryTransitions = map[EntryStatus]map[EntryStatus]struct{}{
	EntryStatusDraft:     {EntryStatusInReview: {}},
	EntryStatusInReview:  {EntryStatusApproved: {}, EntryStatusRejected: {}},
	EntryStatusApproved:  {EntryStatusPublished: {}},
	EntryStatusRejected:  {EntryStatusDraft: {}},
	EntryStatusPublished: {},
}

func CanTransition(from, to EntryStatus) bool {
	_, ok := entryTransitions[from][to]
	return ok
}

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Entry is a content item. TenantID and UserID never change after creation.
type Entry struct {
	ID              string      `json:"id" bson:"_id"`
	TenantID        string      `json:"tenantId" bson:"tenantId"`
	UserID          string      `json:"userId" bson:"userId"`
	AuthorUsername  string      `json:"authorUsername" bson:"authorUsername"`
	AuthorAvatarURL string      `json:"authorAvatarUrl" bson:"authorAvatarUrl"`
	Title           string      `json:"title" bson:"title"`
	Description     string      `json:"description" bson:"description"`
	Type            EntryType   `json:"type" bson:"type"`
	Status          EntryStatus `json:"status" bson:"status"`
	Visibility      Visibility  `json:"visibility" bson:"visibility"`
	IsPaid          bool        `json:"isPaid" bson:"isPaid"`
	Price           float64     `json:"priceXlm" bson:"priceXlm"`
	Tags            []string    `json:"tags,omitempty" bson:"tags,omitempty"`
	ThumbnailKey    string      `json:"thumbnailR2Key,omitempty" bson:"thumbnailR2Key,omitempty"`
	PreviewKey      string      `json:"previewR2Key,omitempty" bson:"previewR2Key,omitempty"`
	DurationSec     int         `json:"durationSec,omitempty" bson:"durationSec,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
	PublishedAt     *time.Time  `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
}

func (e *Entry) OwnedBy(userID string) bool {
	return e != nil && userID != "" && e.UserID == userID
}

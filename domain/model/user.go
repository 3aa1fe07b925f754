package model

import "time"

// User is the identity record created on first external login.
// OAuthProvider and OAuthUserID are unique together.
type User struct {
	ID             string     `json:"id" bson:"_id"`
	OAuthProvider  string     `json:"oauthProvider" bson:"oauthProvider"`
	OAuthUserID    string     `json:"oauthUserId" bson:"oauthUserId"`
	Username       string     `json:"username" bson:"username"`
	DisplayName    string     `json:"displayName" bson:"displayName"`
	AvatarURL      string     `json:"avatarUrl" bson:"avatarUrl"`
	FollowersCount int64      `json:"followersCount" bson:"followersCount"`
	Blocked        bool       `json:"blocked" bson:"blocked"`
	BlockedAt      *time.Time `json:"blockedAt,omitempty" bson:"blockedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	LastLoginAt    time.Time  `json:"lastLoginAt" bson:"lastLoginAt"`

	TempHandshakeCode      *string    `json:"-" bson:"tempHandshakeCode,omitempty"`
	TempHandshakeCreatedAt *time.Time `json:"-" bson:"tempHandshakeCreatedAt,omitempty"`
}

// ClearHandshake drops both handshake fields together.
func (u *User) ClearHandshake() {
	u.TempHandshakeCode = nil
	u.TempHandshakeCreatedAt = nil
}

// Principal returns the token snapshot of the user. The subject is always the
// external identity id, never the storage id.
func (u *User) Principal() Principal {
	return Principal{
		ID:             u.OAuthUserID,
		DisplayName:    u.DisplayName,
		Username:       u.Username,
		AvatarURL:      u.AvatarURL,
		Provider:       u.OAuthProvider,
		FollowersCount: u.FollowersCount,
	}
}

package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderX      = "x"
	ProviderGoogle = "google"
)

var ErrInvalidIdentity = errors.New("identity: unexpected external identity shape")

// XProfile is the payload of GET /2/users/me.
type XProfile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
	PublicMetrics   struct {
		FollowersCount int64 `json:"followers_count"`
	} `json:"public_metrics"`
}

// GoogleProfile is the subset of the OpenID userinfo document in use.
type GoogleProfile struct {
	Sub     string
	Name    string
	Email   string
	Picture string
}

// ExternalIdentity is the authenticated login event. Exactly one payload
// matching Provider must be set.
type ExternalIdentity struct {
	Provider string
	X        *XProfile
	Google   *GoogleProfile
}

// CanonicalIdentity is the provider independent record the handshake works on.
type CanonicalIdentity struct {
	ID            string
	DisplayName   string
	Username      string
	AvatarURL     string
	Provider      string
	FollowerCount int64
}

func (e ExternalIdentity) Canonical() (CanonicalIdentity, error) {
	switch e.Provider {
	case ProviderX:
		if e.X == nil || e.Google != nil || e.X.ID == "" {
			return CanonicalIdentity{}, fmt.Errorf("%w: provider %q", ErrInvalidIdentity, e.Provider)
		}
		return CanonicalIdentity{
			ID:            e.X.ID,
			DisplayName:   orUnknown(e.X.Name),
			Username:      orUnknown(e.X.Username),
			AvatarURL:     NormalizeAvatarURL(e.X.ProfileImageURL),
			Provider:      ProviderX,
			FollowerCount: e.X.PublicMetrics.FollowersCount,
		}, nil
	case ProviderGoogle:
		if e.Google == nil || e.X != nil || e.Google.Sub == "" {
			return CanonicalIdentity{}, fmt.Errorf("%w: provider %q", ErrInvalidIdentity, e.Provider)
		}
		username := e.Google.Email
		if at := strings.IndexByte(username, '@'); at > 0 {
			username = username[:at]
		}
		return CanonicalIdentity{
			ID:          e.Google.Sub,
			DisplayName: orUnknown(e.Google.Name),
			Username:    orUnknown(username),
			AvatarURL:   NormalizeAvatarURL(e.Google.Picture),
			Provider:    ProviderGoogle,
		}, nil
	}
	return CanonicalIdentity{}, fmt.Errorf("%w: unknown provider %q", ErrInvalidIdentity, e.Provider)
}

// NormalizeAvatarURL upgrades the small "_normal" thumbnail to the 400x400 variant.
func NormalizeAvatarURL(u string) string {
	return strings.Replace(u, "_normal", "_400x400", 1)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

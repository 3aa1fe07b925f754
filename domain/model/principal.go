package model

// Principal is the authenticated caller as seen by every downstream check.
// Both the header and the cookie pipelines produce this same shape.
type Principal struct {
	ID             string `json:"id"`
	DisplayName    string `json:"name"`
	Username       string `json:"username"`
	AvatarURL      string `json:"profileImageUrl"`
	Provider       string `json:"oauthProvider"`
	FollowersCount int64  `json:"followersCount"`
}

func (p Principal) IsZero() bool {
	return p.ID == ""
}

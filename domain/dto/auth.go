package dto

type SessionResponse struct {
	AccessToken string `json:"accessToken"`
}

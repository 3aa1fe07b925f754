package dto

import "time"

type EntitlementResponse struct {
	Allowed            bool   `json:"allowed"`
	StorageKey         string `json:"storageKey"`
	ContentType        string `json:"contentType"`
	ContentDisposition string `json:"contentDisposition"`
	FileName           string `json:"fileName"`
}

// GrantEntitlementRequest is sent by the trusted purchase flow.
type GrantEntitlementRequest struct {
	UserID    string     `json:"userId" binding:"required"`
	EntryID   string     `json:"entryId" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
	OrderID   *string    `json:"orderId"`
}

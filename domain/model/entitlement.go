package model

import "time"

type EntitlementStatus string

const (
	EntitlementActive  EntitlementStatus = "ACTIVE"
	EntitlementRevoked EntitlementStatus = "REVOKED"
	EntitlementExpired EntitlementStatus = "EXPIRED"
)

// Entitlement grants one user access to one private entry.
// (TenantID, UserID, EntryID) is unique.
type Entitlement struct {
	ID        int64             `json:"id"`
	TenantID  string            `json:"tenantId"`
	UserID    string            `json:"userId"`
	EntryID   string            `json:"entryId"`
	Status    EntitlementStatus `json:"status"`
	GrantedAt time.Time         `json:"grantedAt"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	OrderID   *string           `json:"orderId,omitempty"`
}

// ActiveAt is true for an ACTIVE grant that has not passed its expiry.
func (e *Entitlement) ActiveAt(now time.Time) bool {
	if e == nil || e.Status != EntitlementActive {
		return false
	}
	return e.ExpiresAt == nil || now.Before(*e.ExpiresAt)
}

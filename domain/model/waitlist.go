package model

import "time"

type Founder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  string    `json:"tenantId" gorm:"size:64;index"`
	Email     string    `json:"email" gorm:"size:320;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Founder) TableName() string { return "founders" }

type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FounderID uint      `json:"founderId" gorm:"index"`
	Message   string    `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Feedback) TableName() string { return "feedbacks" }

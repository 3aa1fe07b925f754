package dto

type WaitlistRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Feedback        string `json:"feedback" binding:"max=4000"`
	CaptchaResponse string `json:"captchaResponse" binding:"required"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type WaitlistStats struct {
	Total int64        `json:"total"`
	Daily []DailyCount `json:"daily"`
}

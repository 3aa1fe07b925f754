package dto

import "time"

type CleanupReport struct {
	DeletedCount int            `json:"deletedCount"`
	CountsByType map[string]int `json:"countsByType"`
	Cutoff       time.Time      `json:"cutoffTimestamp"`
	DurationMs   int64          `json:"durationMs"`
}

package models

import "time"

type InteractionLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogID        string    `gorm:"size:36;uniqueIndex;not null" json:"log_id"`
	UserID       string    `gorm:"size:128;index;not null" json:"user_id"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
	Location     Location  `gorm:"serializer:json" json:"location"`
	RecordingURL string    `json:"recording_url,omitempty"`
	IPFSHash     string    `gorm:"size:128" json:"ipfs_hash,omitempty"`
	Notes        *string   `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

package models

import "time"

type RightsCard struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CardID       string    `gorm:"size:36;uniqueIndex;not null" json:"card_id"`
	State        string    `gorm:"size:64;index" json:"state"`
	Scenario     string    `gorm:"size:32" json:"scenario"`
	Language     string    `gorm:"size:16" json:"language"`
	Title        string    `json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	Summary      string    `gorm:"type:text" json:"summary"`
	Version      string    `gorm:"size:8" json:"version"`
	IPFSHash     string    `gorm:"size:128;index" json:"ipfs_hash"`
	IPFSURL      string    `json:"ipfs_url"`
	ShareableURL string    `json:"shareable_url"`
	CreatedAt    time.Time `json:"created_at"`
}

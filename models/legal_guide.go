package models

import "time"

// LegalGuide is one generated rights guide per (state, language).
type LegalGuide struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GuideID   string    `gorm:"size:36;uniqueIndex;not null" json:"guide_id"`
	State     string    `gorm:"size:64;not null;uniqueIndex:idx_guide_state_language" json:"state"`
	Language  string    `gorm:"size:16;not null;default:en;uniqueIndex:idx_guide_state_language" json:"language"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

// Script is a scripted phrase set for one interaction scenario.
type Script struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ScriptID  string    `gorm:"size:36;uniqueIndex;not null" json:"script_id"`
	Scenario  string    `gorm:"size:32;index;not null" json:"scenario"`
	Title     string    `json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Language  string    `gorm:"size:16;default:en" json:"language"`
	IsPremium bool      `gorm:"default:false" json:"is_premium"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

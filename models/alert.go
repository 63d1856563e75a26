package models

import "time"

type AlertStatus string

const (
	AlertPending AlertStatus = "pending"
	AlertSent    AlertStatus = "sent"
	AlertFailed  AlertStatus = "failed"
)

type Alert struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	AlertID              string      `gorm:"size:36;uniqueIndex;not null" json:"alert_id"`
	UserID               string      `gorm:"size:128;index;not null" json:"user_id"`
	Timestamp            time.Time   `gorm:"index" json:"timestamp"`
	Location             Location    `gorm:"serializer:json" json:"location"`
	RecipientContactInfo []Contact   `gorm:"serializer:json" json:"recipient_contact_info"`
	MessageTemplate      string      `gorm:"type:text" json:"message_template"`
	AlertType            string      `gorm:"size:32" json:"alert_type"`
	Status               AlertStatus `gorm:"size:16;index;default:pending" json:"status"`
	CreatedAt            time.Time   `json:"created_at"`
}

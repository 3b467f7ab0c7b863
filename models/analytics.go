package models

import (
	"time"
)

// Popup event types recorded by the storefront script
const (
	EventView         = "view"
	EventEmailEntered = "email_entered"
	EventSpin         = "spin"
	EventWin          = "win"
	EventLose         = "lose"
	EventCopyCode     = "copy_code"
	EventClose        = "close"
)

// PopupAnalytics is one append-only storefront event. Written by the
// public ingest endpoint, read-only everywhere else.
type PopupAnalytics struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Shop         string    `gorm:"index;not null" json:"shop"`
	EventType    string    `gorm:"index;not null" json:"event_type"`
	Email        *string   `gorm:"index" json:"email"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
	DiscountCode *string   `json:"discount_code"`
	PrizeLabel   *string   `json:"prize_label"`
	SessionID    string    `json:"session_id"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
	Metadata     string    `gorm:"type:text" json:"metadata"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PopupAnalytics) TableName() string {
	return "popup_analytics"
}

// ValidEventType reports whether t is one of the recognized event types.
func ValidEventType(t string) bool {
	switch t {
	case EventView, EventEmailEntered, EventSpin, EventWin, EventLose, EventCopyCode, EventClose:
		return true
	}
	return false
}

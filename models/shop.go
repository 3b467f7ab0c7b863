package models

import (
	"time"
)

// Shop is an installed store. Created by the OAuth callback; the access
// token is the offline token used for Admin API lookups (theme embed status).
type Shop struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Domain      string    `gorm:"uniqueIndex;not null" json:"domain"`
	AccessToken string    `json:"-"`
	Scope       string    `json:"scope"`
	Email       string    `json:"email"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	InstalledAt time.Time `json:"installed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Shop) TableName() string {
	return "shops"
}

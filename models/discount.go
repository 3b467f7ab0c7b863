package models

import (
	"time"
)

// DiscountCode is a code issued to a subscriber by the discount-generation
// collaborator. Read-only from the admin side.
type DiscountCode struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Shop          string    `gorm:"index;not null" json:"shop"`
	Email         string    `gorm:"index;not null" json:"email"`
	Code          string    `gorm:"not null" json:"code"`
	DiscountType  string    `json:"discount_type"` // "percentage" or "fixed_amount"
	DiscountValue float64   `json:"discount_value"`
	UsageCount    int       `json:"usage_count"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	EndsAt        time.Time `json:"ends_at"`
}

func (DiscountCode) TableName() string {
	return "discount_codes"
}

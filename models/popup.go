package models

import (
	"time"
)

// Popup type identifiers. Each type carries its own settings schema.
const (
	PopupTypeEmail       = "email"
	PopupTypeWheelEmail  = "wheel-email"
	PopupTypeCommunity   = "community"
	PopupTypeTimer       = "timer"
	PopupTypeScratchCard = "scratch-card"
)

// PopupFrequency values controlling how often a popup re-appears per visitor
const (
	FrequencyOnce   = "once"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyAlways = "always"
)

// PopupConfig is one popup configuration row. A shop may own several rows;
// the storefront serves the newest active one.
type PopupConfig struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Shop string `gorm:"index;not null" json:"shop"`
	Type string `gorm:"not null" json:"type"`
	Name string `gorm:"size:50" json:"name"`

	// Common appearance and behavior fields
	Title           string `json:"title"`
	Description     string `json:"description"`
	Placeholder     string `json:"placeholder"`
	ButtonText      string `json:"button_text"`
	DiscountCode    string `json:"discount_code"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	BorderRadius    int    `json:"border_radius"`
	ShowCloseButton bool   `json:"show_close_button"`
	DisplayDelay    int    `json:"display_delay"`
	Frequency       string `json:"frequency"`
	ExitIntent      bool   `json:"exit_intent"`
	ExitIntentDelay int    `json:"exit_intent_delay"`

	// Structured sub-fields stored as JSON text. NULL when the field is
	// irrelevant to the popup type (saving an email popup clears segments).
	Segments      *string `gorm:"type:text" json:"segments,omitempty"`
	SocialIcons   *string `gorm:"type:text" json:"social_icons,omitempty"`
	HouseRules    *string `gorm:"type:text" json:"house_rules,omitempty"`
	PageTargeting *string `gorm:"type:text" json:"page_targeting,omitempty"`

	// wheel-email extras
	Subtitle       *string `json:"subtitle,omitempty"`
	ShowHouseRules *bool   `json:"show_house_rules,omitempty"`

	// community extras
	BannerImage    *string `json:"banner_image,omitempty"`
	AskMeLaterText *string `json:"ask_me_later_text,omitempty"`
	ShowAskMeLater *bool   `json:"show_ask_me_later,omitempty"`

	// timer extras
	TimerDays         *int    `json:"timer_days,omitempty"`
	TimerHours        *int    `json:"timer_hours,omitempty"`
	TimerMinutes      *int    `json:"timer_minutes,omitempty"`
	TimerSeconds      *int    `json:"timer_seconds,omitempty"`
	TimerIcon         *string `json:"timer_icon,omitempty"`
	OnExpiration      *string `json:"on_expiration,omitempty"`
	ExpiredTitle      *string `json:"expired_title,omitempty"`
	ExpiredMessage    *string `json:"expired_message,omitempty"`
	ExpiredIcon       *string `json:"expired_icon,omitempty"`
	ExpiredButtonText *string `json:"expired_button_text,omitempty"`
	SuccessTitle      *string `json:"success_title,omitempty"`
	SuccessMessage    *string `json:"success_message,omitempty"`
	Disclaimer        *string `json:"disclaimer,omitempty"`

	// scratch-card extras
	ScratchDiscountPercentage *int `json:"scratch_discount_percentage,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PopupConfig) TableName() string {
	return "popup_configs"
}

// WheelSegment is one slice of the spinning wheel. Code is nil for
// losing segments ("Try Again").
type WheelSegment struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Code  *string `json:"code"`
}

// Social platforms supported by the community popup
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
	PlatformX         = "x"
)

// SocialIcon is one follow link on the community popup.
type SocialIcon struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Enabled  bool   `json:"enabled"`
}

// SelectedPage is one storefront page a popup is targeted at.
type SelectedPage struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Value string `json:"value"`
	URL   string `json:"url,omitempty"`
}

// PageTargeting controls which storefront URLs a popup renders on.
// Exactly one of TargetAllPages/TargetSpecificPages is true, and
// SelectedPages is non-empty only for specific targeting.
type PageTargeting struct {
	TargetAllPages      bool           `json:"targetAllPages"`
	TargetSpecificPages bool           `json:"targetSpecificPages"`
	SelectedPages       []SelectedPage `json:"selectedPages"`
}

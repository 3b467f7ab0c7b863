package controllers

import (
	"encoding/json"
	"fmt"

	"github.com/popreach/popreach/models"
)

// applySettingsToRow writes a merged settings object into the row's columns.
// Every type-specific column is cleared first so switching popup type is a
// full replace, never a merge across types.
func applySettingsToRow(row *models.PopupConfig, popupType string, cfg PopupSettings) error {
	row.Type = popupType

	row.Title = settingString(cfg, "title")
	row.Description = settingString(cfg, "description")
	row.Placeholder = settingString(cfg, "placeholder")
	row.ButtonText = settingString(cfg, "buttonText")
	row.DiscountCode = settingString(cfg, "discountCode")
	row.BackgroundColor = settingString(cfg, "backgroundColor")
	row.TextColor = settingString(cfg, "textColor")
	row.BorderRadius = settingInt(cfg, "borderRadius")
	row.ShowCloseButton = settingBool(cfg, "showCloseButton")
	row.DisplayDelay = settingInt(cfg, "displayDelay")
	row.Frequency = settingString(cfg, "frequency")
	row.ExitIntent = settingBool(cfg, "exitIntent")
	row.ExitIntentDelay = settingInt(cfg, "exitIntentDelay")

	clearTypeSpecificColumns(row)

	targeting, err := marshalSetting(cfg["pageTargeting"])
	if err != nil {
		return fmt.Errorf("failed to serialize page targeting: %v", err)
	}
	row.PageTargeting = &targeting

	switch popupType {
	case models.PopupTypeEmail:
		// Only common fields

	case models.PopupTypeWheelEmail:
		segments, err := marshalSetting(cfg["segments"])
		if err != nil {
			return fmt.Errorf("failed to serialize segments: %v", err)
		}
		rules, err := marshalSetting(cfg["houseRules"])
		if err != nil {
			return fmt.Errorf("failed to serialize house rules: %v", err)
		}
		row.Segments = &segments
		row.HouseRules = &rules
		row.Subtitle = stringPtrSetting(cfg, "subtitle")
		row.ShowHouseRules = boolPtrSetting(cfg, "showHouseRules")

	case models.PopupTypeCommunity:
		icons, err := marshalSetting(cfg["socialIcons"])
		if err != nil {
			return fmt.Errorf("failed to serialize social icons: %v", err)
		}
		row.SocialIcons = &icons
		row.BannerImage = stringPtrSetting(cfg, "bannerImage")
		row.AskMeLaterText = stringPtrSetting(cfg, "askMeLaterText")
		row.ShowAskMeLater = boolPtrSetting(cfg, "showAskMeLater")

	case models.PopupTypeTimer:
		row.TimerDays = intPtrSetting(cfg, "timerDays")
		row.TimerHours = intPtrSetting(cfg, "timerHours")
		row.TimerMinutes = intPtrSetting(cfg, "timerMinutes")
		row.TimerSeconds = intPtrSetting(cfg, "timerSeconds")
		row.TimerIcon = stringPtrSetting(cfg, "timerIcon")
		row.OnExpiration = stringPtrSetting(cfg, "onExpiration")
		row.ExpiredTitle = stringPtrSetting(cfg, "expiredTitle")
		row.ExpiredMessage = stringPtrSetting(cfg, "expiredMessage")
		row.ExpiredIcon = stringPtrSetting(cfg, "expiredIcon")
		row.ExpiredButtonText = stringPtrSetting(cfg, "expiredButtonText")
		row.SuccessTitle = stringPtrSetting(cfg, "successTitle")
		row.SuccessMessage = stringPtrSetting(cfg, "successMessage")
		row.Disclaimer = stringPtrSetting(cfg, "disclaimer")

	case models.PopupTypeScratchCard:
		row.ScratchDiscountPercentage = intPtrSetting(cfg, "scratchDiscountPercentage")

	default:
		return fmt.Errorf("unsupported popup type: %s", popupType)
	}

	return nil
}

// clearTypeSpecificColumns nulls every column owned by a single popup type.
func clearTypeSpecificColumns(row *models.PopupConfig) {
	row.Segments = nil
	row.SocialIcons = nil
	row.HouseRules = nil
	row.Subtitle = nil
	row.ShowHouseRules = nil
	row.BannerImage = nil
	row.AskMeLaterText = nil
	row.ShowAskMeLater = nil
	row.TimerDays = nil
	row.TimerHours = nil
	row.TimerMinutes = nil
	row.TimerSeconds = nil
	row.TimerIcon = nil
	row.OnExpiration = nil
	row.ExpiredTitle = nil
	row.ExpiredMessage = nil
	row.ExpiredIcon = nil
	row.ExpiredButtonText = nil
	row.SuccessTitle = nil
	row.SuccessMessage = nil
	row.Disclaimer = nil
	row.ScratchDiscountPercentage = nil
}

// rowToSettings parses a stored row back into a complete settings object.
// Structured columns pass through MergeConfig so malformed stored JSON
// degrades to the type default instead of failing the read.
func rowToSettings(row *models.PopupConfig) PopupSettings {
	stored := map[string]interface{}{
		"title":           row.Title,
		"description":     row.Description,
		"placeholder":     row.Placeholder,
		"buttonText":      row.ButtonText,
		"discountCode":    row.DiscountCode,
		"backgroundColor": row.BackgroundColor,
		"textColor":       row.TextColor,
		"borderRadius":    row.BorderRadius,
		"showCloseButton": row.ShowCloseButton,
		"displayDelay":    row.DisplayDelay,
		"frequency":       row.Frequency,
		"exitIntent":      row.ExitIntent,
		"exitIntentDelay": row.ExitIntentDelay,
	}

	putText := func(key string, v *string) {
		if v != nil {
			stored[key] = *v
		}
	}
	putBool := func(key string, v *bool) {
		if v != nil {
			stored[key] = *v
		}
	}
	putInt := func(key string, v *int) {
		if v != nil {
			stored[key] = *v
		}
	}

	putText("segments", row.Segments)
	putText("socialIcons", row.SocialIcons)
	putText("houseRules", row.HouseRules)
	putText("pageTargeting", row.PageTargeting)
	putText("subtitle", row.Subtitle)
	putBool("showHouseRules", row.ShowHouseRules)
	putText("bannerImage", row.BannerImage)
	putText("askMeLaterText", row.AskMeLaterText)
	putBool("showAskMeLater", row.ShowAskMeLater)
	putInt("timerDays", row.TimerDays)
	putInt("timerHours", row.TimerHours)
	putInt("timerMinutes", row.TimerMinutes)
	putInt("timerSeconds", row.TimerSeconds)
	putText("timerIcon", row.TimerIcon)
	putText("onExpiration", row.OnExpiration)
	putText("expiredTitle", row.ExpiredTitle)
	putText("expiredMessage", row.ExpiredMessage)
	putText("expiredIcon", row.ExpiredIcon)
	putText("expiredButtonText", row.ExpiredButtonText)
	putText("successTitle", row.SuccessTitle)
	putText("successMessage", row.SuccessMessage)
	putText("disclaimer", row.Disclaimer)
	putInt("scratchDiscountPercentage", row.ScratchDiscountPercentage)

	return MergeConfig(stored, row.Type)
}

func marshalSetting(value interface{}) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func settingString(cfg PopupSettings, key string) string {
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}

func settingBool(cfg PopupSettings, key string) bool {
	if v, ok := cfg[key].(bool); ok {
		return v
	}
	return false
}

func settingInt(cfg PopupSettings, key string) int {
	n, _ := toInt(cfg[key])
	return n
}

func stringPtrSetting(cfg PopupSettings, key string) *string {
	s := settingString(cfg, key)
	return &s
}

func boolPtrSetting(cfg PopupSettings, key string) *bool {
	b := settingBool(cfg, key)
	return &b
}

func intPtrSetting(cfg PopupSettings, key string) *int {
	n := settingInt(cfg, key)
	return &n
}

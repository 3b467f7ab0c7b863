package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popreach/popreach/models"
)

func TestApplySettingsRoundTrip(t *testing.T) {
	code := "BIG30"
	merged := MergeConfig(map[string]interface{}{
		"title":    "Spin for a prize",
		"segments": []models.WheelSegment{{Label: "30% OFF", Color: "#111111", Code: &code}},
	}, models.PopupTypeWheelEmail)

	row := models.PopupConfig{Shop: "demo.myshopify.com"}
	require.NoError(t, applySettingsToRow(&row, models.PopupTypeWheelEmail, merged))

	require.NotNil(t, row.Segments)
	require.NotNil(t, row.HouseRules)
	require.NotNil(t, row.PageTargeting)
	assert.Equal(t, "Spin for a prize", row.Title)

	restored := rowToSettings(&row)
	assert.Equal(t, merged, restored)
}

func TestApplySettingsRejectsUnknownType(t *testing.T) {
	row := models.PopupConfig{}
	err := applySettingsToRow(&row, "carousel", PopupSettings{})
	assert.Error(t, err)
}

func TestApplySettingsTypeSwitchIsFullReplace(t *testing.T) {
	row := models.PopupConfig{Shop: "demo.myshopify.com"}

	email := MergeConfig(nil, models.PopupTypeEmail)
	require.NoError(t, applySettingsToRow(&row, models.PopupTypeEmail, email))
	assert.Equal(t, "WELCOME10", row.DiscountCode)
	assert.Nil(t, row.Segments)

	wheel := MergeConfig(nil, models.PopupTypeWheelEmail)
	require.NoError(t, applySettingsToRow(&row, models.PopupTypeWheelEmail, wheel))
	require.NotNil(t, row.Segments)
	require.NotNil(t, row.Subtitle)

	timer := MergeConfig(nil, models.PopupTypeTimer)
	require.NoError(t, applySettingsToRow(&row, models.PopupTypeTimer, timer))

	// Wheel columns are gone, timer columns are set
	assert.Nil(t, row.Segments)
	assert.Nil(t, row.HouseRules)
	assert.Nil(t, row.Subtitle)
	assert.Nil(t, row.ShowHouseRules)
	require.NotNil(t, row.TimerMinutes)
	assert.Equal(t, 15, *row.TimerMinutes)
	require.NotNil(t, row.OnExpiration)
	assert.Equal(t, "show_expired", *row.OnExpiration)
}

func TestRowToSettingsFillsMissingColumns(t *testing.T) {
	// A sparse legacy row still opens with a complete settings object
	row := models.PopupConfig{
		Shop:  "demo.myshopify.com",
		Type:  models.PopupTypeScratchCard,
		Title: "Scratch me",
	}

	settings := rowToSettings(&row)
	schema, _ := PopupSchemaFor(models.PopupTypeScratchCard)
	assert.Len(t, settings, len(schema))
	assert.Equal(t, "Scratch me", settings["title"])
	// NULL percentage column falls back to the default
	assert.Equal(t, DefaultScratchPercentage, settings["scratchDiscountPercentage"])

	targeting, ok := settings["pageTargeting"].(models.PageTargeting)
	require.True(t, ok)
	assert.True(t, targeting.TargetAllPages)

	// A stored zero clamps up to the floor instead
	zero := 0
	row.ScratchDiscountPercentage = &zero
	assert.Equal(t, 1, rowToSettings(&row)["scratchDiscountPercentage"])
}

func TestValidateWheelSegments(t *testing.T) {
	good := MergeConfig(nil, models.PopupTypeWheelEmail)
	assert.Empty(t, validateWheelSegments(good))

	bad := MergeConfig(map[string]interface{}{
		"segments": []models.WheelSegment{
			{Label: "OK", Color: "#aabbcc"},
			{Label: "Bad", Color: "not-a-color"},
		},
	}, models.PopupTypeWheelEmail)

	errs := validateWheelSegments(bad)
	require.Len(t, errs, 1)
	assert.Equal(t, "segments[1].color", errs[0].Field)
}

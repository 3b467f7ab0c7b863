package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popreach/popreach/models"
)

func TestBuildDefaultConfigCoversSchema(t *testing.T) {
	types := []string{
		models.PopupTypeEmail,
		models.PopupTypeWheelEmail,
		models.PopupTypeCommunity,
		models.PopupTypeTimer,
		models.PopupTypeScratchCard,
	}

	for _, popupType := range types {
		t.Run(popupType, func(t *testing.T) {
			schema, ok := PopupSchemaFor(popupType)
			require.True(t, ok)

			cfg := BuildDefaultConfig(popupType)
			require.Len(t, cfg, len(schema))
			for _, field := range schema {
				assert.Contains(t, cfg, field.Name)
			}
		})
	}
}

func TestBuildDefaultConfigPerTypeValues(t *testing.T) {
	email := BuildDefaultConfig(models.PopupTypeEmail)
	assert.Equal(t, "Get 10% Off Your First Order", email["title"])
	assert.Equal(t, "WELCOME10", email["discountCode"])
	assert.Equal(t, models.FrequencyOnce, email["frequency"])
	assert.Equal(t, 3000, email["displayDelay"])

	wheel := BuildDefaultConfig(models.PopupTypeWheelEmail)
	assert.Equal(t, "Spin to Win!", wheel["title"])
	assert.Equal(t, "gradient", wheel["backgroundType"])
	assert.Equal(t, defaultSegments(), wheel["segments"])
	assert.Equal(t, defaultHouseRules(), wheel["houseRules"])

	community := BuildDefaultConfig(models.PopupTypeCommunity)
	assert.Equal(t, "Join Our Community", community["title"])
	assert.Equal(t, defaultSocialIcons(), community["socialIcons"])
	assert.Equal(t, true, community["showAskMeLater"])

	timer := BuildDefaultConfig(models.PopupTypeTimer)
	assert.Equal(t, 0, timer["timerDays"])
	assert.Equal(t, 15, timer["timerMinutes"])
	assert.Equal(t, "show_expired", timer["onExpiration"])

	scratch := BuildDefaultConfig(models.PopupTypeScratchCard)
	assert.Equal(t, DefaultScratchPercentage, scratch["scratchDiscountPercentage"])

	targeting, ok := email["pageTargeting"].(models.PageTargeting)
	require.True(t, ok)
	assert.True(t, targeting.TargetAllPages)
	assert.False(t, targeting.TargetSpecificPages)
	assert.Empty(t, targeting.SelectedPages)
}

func TestMergeConfigExplicitZeroValuesKept(t *testing.T) {
	merged := MergeConfig(map[string]interface{}{
		"title":           "",
		"showCloseButton": false,
		"displayDelay":    0,
		"exitIntent":      false,
	}, models.PopupTypeEmail)

	assert.Equal(t, "", merged["title"])
	assert.Equal(t, false, merged["showCloseButton"])
	assert.Equal(t, 0, merged["displayDelay"])
	assert.Equal(t, false, merged["exitIntent"])
	// Absent fields still fall back
	assert.Equal(t, "Subscribe", merged["buttonText"])
	assert.Equal(t, "#ffffff", merged["backgroundColor"])
}

func TestMergeConfigUnknownType(t *testing.T) {
	assert.Nil(t, MergeConfig(nil, "carousel"))
	assert.False(t, ValidPopupType("carousel"))
	assert.True(t, ValidPopupType(models.PopupTypeScratchCard))
}

func TestMergeConfigReinfersWheelBackgroundType(t *testing.T) {
	tests := []struct {
		name            string
		backgroundColor string
		want            string
	}{
		{"gradient css", "linear-gradient(135deg, #1e3c72 0%, #2a5298 100%)", "gradient"},
		{"hex is solid", "#1e3c72", "solid"},
		{"image url is custom", "url(bg.png)", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeConfig(map[string]interface{}{
				"backgroundColor": tt.backgroundColor,
				// A stale stored value must never win
				"backgroundType": "gradient",
			}, models.PopupTypeWheelEmail)
			assert.Equal(t, tt.want, merged["backgroundType"])
		})
	}
}

func TestInferBackgroundType(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"linear-gradient(135deg, #1e3c72 0%, #2a5298 100%)", "gradient"},
		{"radial-gradient(circle, #fff, #000)", "gradient"},
		{"#1e3c72", "solid"},
		{"#fff", "solid"},
		{"rgb(30, 60, 114)", "solid"},
		{"hsl(220, 58%, 28%)", "solid"},
		{"url(background.png)", "custom"},
		{"", "custom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferBackgroundType(tt.value), "value %q", tt.value)
	}
}

func TestMergeConfigClampsTimerFields(t *testing.T) {
	merged := MergeConfig(map[string]interface{}{
		"timerDays":    400,
		"timerHours":   99,
		"timerMinutes": -5,
		"timerSeconds": "not a number",
	}, models.PopupTypeTimer)

	assert.Equal(t, 365, merged["timerDays"])
	assert.Equal(t, 23, merged["timerHours"])
	assert.Equal(t, 0, merged["timerMinutes"])
	assert.Equal(t, 0, merged["timerSeconds"])
}

func TestClampScratchPercentage(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
	}{
		{"above range", 150, 100},
		{"below range", 0, 1},
		{"negative", -20, 1},
		{"in range", 42, 42},
		{"numeric string", "73", 73},
		{"json float", float64(33), 33},
		{"non-numeric string", "abc", DefaultScratchPercentage},
		{"nil", nil, DefaultScratchPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampScratchPercentage(tt.value))
		})
	}
}

func TestMergeConfigMalformedJSONDegradesToDefault(t *testing.T) {
	merged := MergeConfig(map[string]interface{}{
		"segments":      "{definitely not json",
		"houseRules":    "[broken",
		"pageTargeting": "nope",
	}, models.PopupTypeWheelEmail)

	assert.Equal(t, defaultSegments(), merged["segments"])
	assert.Equal(t, defaultHouseRules(), merged["houseRules"])

	targeting, ok := merged["pageTargeting"].(models.PageTargeting)
	require.True(t, ok)
	assert.True(t, targeting.TargetAllPages)
}

func TestMergeConfigDecodesStructuredInput(t *testing.T) {
	// Shapes a JSON request body produces after generic decoding
	merged := MergeConfig(map[string]interface{}{
		"segments": []interface{}{
			map[string]interface{}{"label": "30% OFF", "color": "#111111", "code": "BIG30"},
			map[string]interface{}{"label": "Try Again", "color": "#222222", "code": nil},
		},
	}, models.PopupTypeWheelEmail)

	segments, ok := merged["segments"].([]models.WheelSegment)
	require.True(t, ok)
	require.Len(t, segments, 2)
	assert.Equal(t, "30% OFF", segments[0].Label)
	require.NotNil(t, segments[0].Code)
	assert.Equal(t, "BIG30", *segments[0].Code)
	assert.Nil(t, segments[1].Code)
}

func TestNormalizePageTargeting(t *testing.T) {
	pages := []models.SelectedPage{{Type: "collection", Label: "Sale", Value: "sale"}}

	tests := []struct {
		name string
		in   models.PageTargeting
		want models.PageTargeting
	}{
		{
			name: "both set resolves to all pages",
			in:   models.PageTargeting{TargetAllPages: true, TargetSpecificPages: true, SelectedPages: pages},
			want: models.PageTargeting{TargetAllPages: true, SelectedPages: []models.SelectedPage{}},
		},
		{
			name: "neither set resolves to all pages",
			in:   models.PageTargeting{},
			want: models.PageTargeting{TargetAllPages: true, SelectedPages: []models.SelectedPage{}},
		},
		{
			name: "specific targeting keeps pages",
			in:   models.PageTargeting{TargetSpecificPages: true, SelectedPages: pages},
			want: models.PageTargeting{TargetSpecificPages: true, SelectedPages: pages},
		},
		{
			name: "specific targeting with nil pages gets empty slice",
			in:   models.PageTargeting{TargetSpecificPages: true},
			want: models.PageTargeting{TargetSpecificPages: true, SelectedPages: []models.SelectedPage{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePageTargeting(tt.in))
		})
	}
}

func TestTruncatePopupName(t *testing.T) {
	long := "My Incredibly Long Popup Name That Goes On And On Well Past The Limit"
	require.Greater(t, len(long), MaxPopupNameLength)

	truncated := TruncatePopupName(long)
	assert.Len(t, []rune(truncated), MaxPopupNameLength)
	assert.Equal(t, long[:MaxPopupNameLength], truncated)

	assert.Equal(t, "Short name", TruncatePopupName("Short name"))

	// Multibyte names truncate on rune boundaries
	wide := ""
	for i := 0; i < 60; i++ {
		wide += "é"
	}
	assert.Len(t, []rune(TruncatePopupName(wide)), MaxPopupNameLength)
}

func TestDefaultPopupName(t *testing.T) {
	at := time.Date(2026, 8, 24, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "Email Popup - 8/24/2026, 3:04:05 PM", DefaultPopupName(models.PopupTypeEmail, at))
	assert.Equal(t, "Timer Popup - 8/24/2026, 3:04:05 PM", DefaultPopupName(models.PopupTypeTimer, at))
}

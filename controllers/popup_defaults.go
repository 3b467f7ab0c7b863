package controllers

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// FieldKind tells the merge engine how a settings field is stored.
type FieldKind int

const (
	// FieldPlain is stored in its own column
	FieldPlain FieldKind = iota
	// FieldJSONArray is serialized to a JSON text column
	FieldJSONArray
	// FieldJSONObject is serialized to a JSON text column
	FieldJSONObject
)

// FieldSpec declares one settings field: its name, storage kind and default.
type FieldSpec struct {
	Name    string
	Kind    FieldKind
	Default interface{}
}

// PopupSettings is a merged, complete configuration for one popup type.
type PopupSettings map[string]interface{}

// MaxPopupNameLength is a hard input constraint, enforced at entry
const MaxPopupNameLength = 50

// DefaultScratchPercentage is substituted for non-numeric percentage input
const DefaultScratchPercentage = 15

func strPtr(s string) *string { return &s }

// commonFields are shared by every popup type. Per-type schemas override
// the defaults that differ and append their own fields.
func commonFields() []FieldSpec {
	return []FieldSpec{
		{Name: "title", Kind: FieldPlain, Default: "Get 10% Off Your First Order"},
		{Name: "description", Kind: FieldPlain, Default: "Subscribe to our newsletter and receive an exclusive discount code."},
		{Name: "placeholder", Kind: FieldPlain, Default: "Enter your email"},
		{Name: "buttonText", Kind: FieldPlain, Default: "Subscribe"},
		{Name: "discountCode", Kind: FieldPlain, Default: "WELCOME10"},
		{Name: "backgroundColor", Kind: FieldPlain, Default: "#ffffff"},
		{Name: "textColor", Kind: FieldPlain, Default: "#333333"},
		{Name: "borderRadius", Kind: FieldPlain, Default: 8},
		{Name: "showCloseButton", Kind: FieldPlain, Default: true},
		{Name: "displayDelay", Kind: FieldPlain, Default: 3000},
		{Name: "frequency", Kind: FieldPlain, Default: models.FrequencyOnce},
		{Name: "exitIntent", Kind: FieldPlain, Default: false},
		{Name: "exitIntentDelay", Kind: FieldPlain, Default: 0},
		{Name: "pageTargeting", Kind: FieldJSONObject, Default: models.PageTargeting{
			TargetAllPages:      true,
			TargetSpecificPages: false,
			SelectedPages:       []models.SelectedPage{},
		}},
	}
}

func defaultSegments() []models.WheelSegment {
	return []models.WheelSegment{
		{Label: "5% OFF", Color: "#e74c3c", Code: strPtr("SPIN5")},
		{Label: "10% OFF", Color: "#f39c12", Code: strPtr("SPIN10")},
		{Label: "Try Again", Color: "#95a5a6", Code: nil},
		{Label: "15% OFF", Color: "#27ae60", Code: strPtr("SPIN15")},
		{Label: "Free Shipping", Color: "#2980b9", Code: strPtr("FREESHIP")},
		{Label: "20% OFF", Color: "#8e44ad", Code: strPtr("SPIN20")},
	}
}

func defaultSocialIcons() []models.SocialIcon {
	return []models.SocialIcon{
		{Platform: models.PlatformFacebook, URL: "", Enabled: true},
		{Platform: models.PlatformInstagram, URL: "", Enabled: true},
		{Platform: models.PlatformLinkedIn, URL: "", Enabled: false},
		{Platform: models.PlatformX, URL: "", Enabled: false},
	}
}

func defaultHouseRules() []string {
	return []string{
		"One spin per customer",
		"Discount codes are valid for 7 days",
		"Prizes cannot be exchanged for cash",
	}
}

// popupSchemas maps popup type to its complete settings schema.
// Building the map lazily keeps default values immutable between calls.
func popupSchemas() map[string][]FieldSpec {
	schemas := make(map[string][]FieldSpec)

	schemas[models.PopupTypeEmail] = commonFields()

	wheel := overrideDefaults(commonFields(), map[string]interface{}{
		"title":           "Spin to Win!",
		"buttonText":      "Spin Now",
		"backgroundColor": "linear-gradient(135deg, #1e3c72 0%, #2a5298 100%)",
		"textColor":       "#ffffff",
		"discountCode":    "",
	})
	wheel = append(wheel,
		FieldSpec{Name: "subtitle", Kind: FieldPlain, Default: "Enter your email for a chance to win a discount"},
		FieldSpec{Name: "segments", Kind: FieldJSONArray, Default: defaultSegments()},
		FieldSpec{Name: "backgroundType", Kind: FieldPlain, Default: "gradient"},
		FieldSpec{Name: "houseRules", Kind: FieldJSONArray, Default: defaultHouseRules()},
		FieldSpec{Name: "showHouseRules", Kind: FieldPlain, Default: true},
	)
	schemas[models.PopupTypeWheelEmail] = wheel

	community := overrideDefaults(commonFields(), map[string]interface{}{
		"title":        "Join Our Community",
		"description":  "Follow us for product drops, offers and news.",
		"buttonText":   "Follow Us",
		"discountCode": "",
	})
	community = append(community,
		FieldSpec{Name: "socialIcons", Kind: FieldJSONArray, Default: defaultSocialIcons()},
		FieldSpec{Name: "bannerImage", Kind: FieldPlain, Default: ""},
		FieldSpec{Name: "askMeLaterText", Kind: FieldPlain, Default: "Ask me later"},
		FieldSpec{Name: "showAskMeLater", Kind: FieldPlain, Default: true},
	)
	schemas[models.PopupTypeCommunity] = community

	timer := overrideDefaults(commonFields(), map[string]interface{}{
		"title":       "Limited Time Offer",
		"description": "Hurry! This deal expires soon.",
		"buttonText":  "Claim Offer",
	})
	timer = append(timer,
		FieldSpec{Name: "timerDays", Kind: FieldPlain, Default: 0},
		FieldSpec{Name: "timerHours", Kind: FieldPlain, Default: 0},
		FieldSpec{Name: "timerMinutes", Kind: FieldPlain, Default: 15},
		FieldSpec{Name: "timerSeconds", Kind: FieldPlain, Default: 0},
		FieldSpec{Name: "timerIcon", Kind: FieldPlain, Default: "⏰"},
		FieldSpec{Name: "onExpiration", Kind: FieldPlain, Default: "show_expired"},
		FieldSpec{Name: "expiredTitle", Kind: FieldPlain, Default: "Offer Expired"},
		FieldSpec{Name: "expiredMessage", Kind: FieldPlain, Default: "Sorry, this offer is no longer available."},
		FieldSpec{Name: "expiredIcon", Kind: FieldPlain, Default: "⌛"},
		FieldSpec{Name: "expiredButtonText", Kind: FieldPlain, Default: "Continue Shopping"},
		FieldSpec{Name: "successTitle", Kind: FieldPlain, Default: "You're In!"},
		FieldSpec{Name: "successMessage", Kind: FieldPlain, Default: "Use your code at checkout before the timer runs out."},
		FieldSpec{Name: "disclaimer", Kind: FieldPlain, Default: "Limited time offer. One use per customer."},
	)
	schemas[models.PopupTypeTimer] = timer

	scratch := overrideDefaults(commonFields(), map[string]interface{}{
		"title":       "Scratch & Save",
		"description": "Scratch the card to reveal your discount.",
		"buttonText":  "Claim Discount",
	})
	scratch = append(scratch,
		FieldSpec{Name: "scratchDiscountPercentage", Kind: FieldPlain, Default: DefaultScratchPercentage},
	)
	schemas[models.PopupTypeScratchCard] = scratch

	return schemas
}

// overrideDefaults replaces defaults for the named fields in a schema copy.
func overrideDefaults(fields []FieldSpec, overrides map[string]interface{}) []FieldSpec {
	for i := range fields {
		if v, ok := overrides[fields[i].Name]; ok {
			fields[i].Default = v
		}
	}
	return fields
}

// PopupSchemaFor returns the settings schema for a popup type.
func PopupSchemaFor(popupType string) ([]FieldSpec, bool) {
	schema, ok := popupSchemas()[popupType]
	return schema, ok
}

// ValidPopupType reports whether t is a supported popup type.
func ValidPopupType(t string) bool {
	_, ok := popupSchemas()[t]
	return ok
}

// BuildDefaultConfig returns the complete default settings for a popup type.
// Pure and deterministic: no clock reads, no randomness.
func BuildDefaultConfig(popupType string) PopupSettings {
	return MergeConfig(nil, popupType)
}

// MergeConfig fills every field of the type's schema from existing input,
// falling back to the schema default when the field is absent. Explicit
// false/0/"" values count as present. Structured fields stored as JSON text
// are parsed first; malformed JSON degrades to the type default.
func MergeConfig(existing map[string]interface{}, popupType string) PopupSettings {
	schema, ok := popupSchemas()[popupType]
	if !ok {
		return nil
	}

	merged := make(PopupSettings, len(schema))
	for _, field := range schema {
		value, present := existingValue(existing, field)
		if !present {
			value = field.Default
		}
		merged[field.Name] = value
	}

	// Per-type normalization after the generic merge
	switch popupType {
	case models.PopupTypeWheelEmail:
		// backgroundType is never trusted from storage; it is re-derived
		// from backgroundColor on every load
		if color, ok := merged["backgroundColor"].(string); ok {
			merged["backgroundType"] = InferBackgroundType(color)
		}
	case models.PopupTypeTimer:
		merged["timerDays"] = clampInt(merged["timerDays"], 0, 365, 0)
		merged["timerHours"] = clampInt(merged["timerHours"], 0, 23, 0)
		merged["timerMinutes"] = clampInt(merged["timerMinutes"], 0, 59, 0)
		merged["timerSeconds"] = clampInt(merged["timerSeconds"], 0, 59, 0)
	case models.PopupTypeScratchCard:
		merged["scratchDiscountPercentage"] = ClampScratchPercentage(merged["scratchDiscountPercentage"])
	}

	if pt, ok := merged["pageTargeting"].(models.PageTargeting); ok {
		merged["pageTargeting"] = NormalizePageTargeting(pt)
	}

	return merged
}

// existingValue resolves one field from user/stored input, handling
// JSON-text decoding for structured fields.
func existingValue(existing map[string]interface{}, field FieldSpec) (interface{}, bool) {
	if existing == nil {
		return nil, false
	}
	raw, ok := existing[field.Name]
	if !ok || raw == nil {
		return nil, false
	}

	if field.Kind == FieldPlain {
		return raw, true
	}

	// Structured field: accept JSON text from storage or an already
	// structured value from a request body, and coerce to the schema's
	// concrete type so round-trips are lossless.
	var data []byte
	if s, isString := raw.(string); isString {
		data = []byte(s)
	} else {
		encoded, err := json.Marshal(raw)
		if err != nil {
			utils.LogError("Failed to encode %s field, using default: %v", field.Name, err)
			return nil, false
		}
		data = encoded
	}

	decoded, err := decodeStructuredField(field, data)
	if err != nil {
		utils.LogError("Malformed JSON in %s field, using default: %v", field.Name, err)
		return nil, false
	}
	return decoded, true
}

// decodeStructuredField unmarshals JSON text into the concrete type the
// field's default declares.
func decodeStructuredField(field FieldSpec, data []byte) (interface{}, error) {
	switch field.Default.(type) {
	case []models.WheelSegment:
		var v []models.WheelSegment
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case []models.SocialIcon:
		var v []models.SocialIcon
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case []string:
		var v []string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case models.PageTargeting:
		var v models.PageTargeting
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// InferBackgroundType classifies a CSS background value. Re-derived on every
// load rather than trusted from storage, so a hand-edited backgroundColor
// changes the inferred type on next open. Note: a custom background that
// happens to start with "#" is reclassified as solid; kept as-is to match
// the storefront renderer.
func InferBackgroundType(backgroundColor string) string {
	if strings.Contains(backgroundColor, "linear-gradient") || strings.Contains(backgroundColor, "radial-gradient") {
		return "gradient"
	}
	if strings.HasPrefix(backgroundColor, "#") || strings.HasPrefix(backgroundColor, "rgb") || strings.HasPrefix(backgroundColor, "hsl") {
		return "solid"
	}
	return "custom"
}

// ClampScratchPercentage bounds the scratch-card discount to [1,100];
// non-numeric input falls back to the default.
func ClampScratchPercentage(value interface{}) int {
	n, ok := toInt(value)
	if !ok {
		return DefaultScratchPercentage
	}
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

// NormalizePageTargeting enforces the targeting invariant: exactly one mode
// is set, and selected pages exist only under specific targeting.
func NormalizePageTargeting(pt models.PageTargeting) models.PageTargeting {
	if pt.TargetAllPages || !pt.TargetSpecificPages {
		pt.TargetAllPages = true
		pt.TargetSpecificPages = false
		pt.SelectedPages = []models.SelectedPage{}
		return pt
	}
	pt.TargetAllPages = false
	pt.TargetSpecificPages = true
	if pt.SelectedPages == nil {
		pt.SelectedPages = []models.SelectedPage{}
	}
	return pt
}

// DefaultPopupName synthesizes a display name when the merchant supplies
// none, e.g. "Email Popup - 8/24/2026, 3:04:05 PM".
func DefaultPopupName(popupType string, now time.Time) string {
	return TruncatePopupName(capitalize(popupType) + " Popup - " + now.Format("1/2/2006, 3:04:05 PM"))
}

// TruncatePopupName enforces the 50-character name limit at the input
// boundary.
func TruncatePopupName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxPopupNameLength {
		return name
	}
	return string(runes[:MaxPopupNameLength])
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func clampInt(value interface{}, min, max, fallback int) int {
	n, ok := toInt(value)
	if !ok {
		return fallback
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// toInt coerces the numeric shapes JSON decoding produces.
func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		var f float64
		if err := json.Unmarshal([]byte(trimmed), &f); err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

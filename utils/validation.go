package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	// Shopify shop domains are always <handle>.myshopify.com
	shopDomainRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hexColorRegex   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidShopDomain reports whether shop is a well-formed myshopify domain
func ValidShopDomain(shop string) bool {
	return shopDomainRegex.MatchString(shop)
}

// ValidEmail reports whether the string looks like an email address
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidHexColor reports whether the string is a #rgb or #rrggbb color
func ValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

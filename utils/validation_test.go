package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidShopDomain(t *testing.T) {
	valid := []string{
		"demo.myshopify.com",
		"my-store-2.myshopify.com",
		"a.myshopify.com",
	}
	for _, shop := range valid {
		assert.True(t, ValidShopDomain(shop), "expected %q to be valid", shop)
	}

	invalid := []string{
		"",
		"demo",
		"demo.shopify.com",
		"-leading.myshopify.com",
		"demo.myshopify.com.evil.com",
		"https://demo.myshopify.com",
	}
	for _, shop := range invalid {
		assert.False(t, ValidShopDomain(shop), "expected %q to be invalid", shop)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("merchant@example.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
}

func TestValidHexColor(t *testing.T) {
	assert.True(t, ValidHexColor("#fff"))
	assert.True(t, ValidHexColor("#1e3c72"))
	assert.False(t, ValidHexColor("1e3c72"))
	assert.False(t, ValidHexColor("#12345"))
	assert.False(t, ValidHexColor("linear-gradient(#fff, #000)"))
}

func TestFieldValidationErrorsMessage(t *testing.T) {
	errs := FieldValidationErrors{
		{Field: "segments[0].color", Message: "must be a hex color"},
		{Field: "title", Message: "too long"},
	}
	assert.Equal(t, "segments[0].color: must be a hex color; title: too long", errs.Error())
}

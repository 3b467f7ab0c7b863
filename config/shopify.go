package config

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// ShopifyOAuth holds the app-level OAuth settings shared by every shop.
// The authorize/token endpoints are per-shop, so OAuthConfigForShop
// derives the final oauth2.Config at request time.
var ShopifyOAuth struct {
	APIKey    string
	APISecret string
	Scopes    string
	AppURL    string
}

// InitShopifyOAuth loads the Shopify app credentials
func InitShopifyOAuth() {
	ShopifyOAuth.APIKey = os.Getenv("SHOPIFY_API_KEY")
	ShopifyOAuth.APISecret = os.Getenv("SHOPIFY_API_SECRET")
	ShopifyOAuth.Scopes = os.Getenv("SHOPIFY_SCOPES")
	ShopifyOAuth.AppURL = os.Getenv("APP_URL")
	if ShopifyOAuth.Scopes == "" {
		ShopifyOAuth.Scopes = "read_themes,write_discounts"
	}
}

// OAuthConfigForShop builds the oauth2 config for one myshopify domain.
func OAuthConfigForShop(shop string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     ShopifyOAuth.APIKey,
		ClientSecret: ShopifyOAuth.APISecret,
		RedirectURL:  ShopifyOAuth.AppURL + "/auth/callback",
		Scopes:       []string{ShopifyOAuth.Scopes},
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("https://%s/admin/oauth/authorize", shop),
			TokenURL: fmt.Sprintf("https://%s/admin/oauth/access_token", shop),
		},
	}
}

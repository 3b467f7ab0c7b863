package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// ShopifyInstall starts the OAuth flow for a shop
func ShopifyInstall(c *gin.Context) {
	utils.LogInfo("ShopifyInstall called")

	shop := c.Query("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop parameter is required", nil)
		return
	}
	if !utils.ValidShopDomain(shop) {
		utils.LogError("Invalid shop domain on install: %s", shop)
		utils.BadRequest(c, "Invalid shop domain", shop)
		return
	}

	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Set("oauth_shop", shop)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save OAuth session: %v", err)
		utils.InternalServerError(c, "Failed to start installation", err.Error())
		return
	}

	authURL := config.OAuthConfigForShop(shop).AuthCodeURL(state)
	utils.LogDebug("Redirecting %s to Shopify authorize", shop)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// ShopifyCallback completes the OAuth flow: verifies state and HMAC,
// exchanges the code, stores the shop and issues the app session token.
func ShopifyCallback(c *gin.Context) {
	utils.LogInfo("ShopifyCallback called")

	shop := c.Query("shop")
	code := c.Query("code")
	state := c.Query("state")
	if shop == "" || code == "" {
		utils.BadRequest(c, "Missing shop or code parameter", nil)
		return
	}
	if !utils.ValidShopDomain(shop) {
		utils.LogError("Invalid shop domain on callback: %s", shop)
		utils.BadRequest(c, "Invalid shop domain", shop)
		return
	}

	session := sessions.Default(c)
	savedState, _ := session.Get("oauth_state").(string)
	savedShop, _ := session.Get("oauth_shop").(string)
	session.Delete("oauth_state")
	session.Delete("oauth_shop")
	_ = session.Save()

	if savedState == "" || savedState != state || savedShop != shop {
		utils.LogError("OAuth state mismatch for shop %s", shop)
		utils.Unauthorized(c, "Invalid OAuth state")
		return
	}

	if !verifyShopifyHMAC(c.Request.URL.Query(), config.ShopifyOAuth.APISecret) {
		utils.LogError("HMAC verification failed for shop %s", shop)
		utils.Unauthorized(c, "HMAC verification failed")
		return
	}

	token, err := config.OAuthConfigForShop(shop).Exchange(c, code)
	if err != nil {
		utils.LogError("Token exchange failed for shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to exchange token", err.Error())
		return
	}

	var shopRow models.Shop
	if err := config.DB.Where("domain = ?", shop).First(&shopRow).Error; err != nil {
		shopRow = models.Shop{
			Domain:      shop,
			InstalledAt: time.Now(),
		}
	}
	shopRow.AccessToken = token.AccessToken
	shopRow.Scope = config.ShopifyOAuth.Scopes
	shopRow.IsActive = true

	if err := config.DB.Save(&shopRow).Error; err != nil {
		utils.LogError("Failed to save shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to save shop", err.Error())
		return
	}
	utils.LogInfo("Shop %s installed", shop)

	sessionToken, err := issueShopToken(shop)
	if err != nil {
		utils.LogError("Failed to issue session token for %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	redirectURL := fmt.Sprintf("%s/admin?shop=%s&token=%s",
		config.ShopifyOAuth.AppURL, url.QueryEscape(shop), url.QueryEscape(sessionToken))
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

// issueShopToken signs the JWT carried by every admin request
func issueShopToken(shop string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"shop": shop,
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// verifyShopifyHMAC checks the hmac query parameter Shopify signs over the
// remaining sorted query string.
func verifyShopifyHMAC(query url.Values, secret string) bool {
	signature := query.Get("hmac")
	if signature == "" || secret == "" {
		return false
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		if key == "hmac" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+strings.Join(query[key], ","))
	}
	message := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

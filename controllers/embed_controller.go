package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// GetEmbedStatus reports whether the storefront app embed appears enabled.
// Best effort: any failure talking to the Shopify Admin API degrades to
// "assume enabled" so the merchant flow is never blocked on a theme lookup.
func GetEmbedStatus(c *gin.Context) {
	utils.LogInfo("GetEmbedStatus called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	var shopRow models.Shop
	if err := config.DB.Where("domain = ?", shop).First(&shopRow).Error; err != nil {
		utils.LogError("Shop %s not found for embed check: %v", shop, err)
		utils.Success(c, "Embed status (assumed)", gin.H{
			"enabled": true,
			"assumed": true,
		})
		return
	}

	enabled, assumed := lookupEmbedStatus(shop, shopRow.AccessToken)
	utils.LogDebug("Embed status for %s: enabled=%v assumed=%v", shop, enabled, assumed)
	utils.Success(c, "Embed status", gin.H{
		"enabled": enabled,
		"assumed": assumed,
	})
}

// lookupEmbedStatus queries the main theme's settings for the app embed
// block. Returns (enabled, assumed); assumed is true when the lookup failed
// and the caller should treat the embed as enabled.
func lookupEmbedStatus(shop, accessToken string) (bool, bool) {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequest("GET", fmt.Sprintf("https://%s/admin/api/2024-01/themes.json?role=main", shop), nil)
	if err != nil {
		utils.LogError("Failed to build theme request for %s: %v", shop, err)
		return true, true
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := client.Do(req)
	if err != nil {
		utils.LogError("Theme lookup failed for %s: %v", shop, err)
		return true, true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.LogError("Theme lookup for %s returned status %d", shop, resp.StatusCode)
		return true, true
	}

	var payload struct {
		Themes []struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"themes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		utils.LogError("Failed to decode theme response for %s: %v", shop, err)
		return true, true
	}
	if len(payload.Themes) == 0 {
		return true, true
	}

	assetURL := fmt.Sprintf(
		"https://%s/admin/api/2024-01/themes/%d/assets.json?asset[key]=config/settings_data.json",
		shop, payload.Themes[0].ID)
	assetReq, err := http.NewRequest("GET", assetURL, nil)
	if err != nil {
		return true, true
	}
	assetReq.Header.Set("X-Shopify-Access-Token", accessToken)

	assetResp, err := client.Do(assetReq)
	if err != nil {
		utils.LogError("Settings asset lookup failed for %s: %v", shop, err)
		return true, true
	}
	defer assetResp.Body.Close()

	if assetResp.StatusCode != http.StatusOK {
		return true, true
	}

	var asset struct {
		Asset struct {
			Value string `json:"value"`
		} `json:"asset"`
	}
	if err := json.NewDecoder(assetResp.Body).Decode(&asset); err != nil {
		utils.LogError("Failed to decode settings asset for %s: %v", shop, err)
		return true, true
	}

	return embedEnabledInSettings(asset.Asset.Value), false
}

// embedEnabledInSettings scans a theme's settings_data.json for our app
// embed block. The block key contains the app handle; the block is off
// when "disabled" is true.
func embedEnabledInSettings(settingsJSON string) bool {
	var settings struct {
		Current struct {
			Blocks map[string]struct {
				Type     string `json:"type"`
				Disabled bool   `json:"disabled"`
			} `json:"blocks"`
		} `json:"current"`
	}
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return true
	}
	for _, block := range settings.Current.Blocks {
		if strings.Contains(block.Type, "popreach") {
			return !block.Disabled
		}
	}
	// Block absent: the embed was never added, treat as enabled so the
	// admin flow is not blocked
	return true
}

package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// GetStorefrontConfig serves the newest active popup for a shop to the
// storefront script. Anonymous; the route group carries permissive CORS
// because the caller is the storefront origin.
func GetStorefrontConfig(c *gin.Context) {
	shop := c.Query("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop parameter is required", nil)
		return
	}
	if !utils.ValidShopDomain(shop) {
		utils.LogError("Invalid shop domain on storefront config fetch: %s", shop)
		utils.BadRequest(c, "Invalid shop domain", shop)
		return
	}

	var row models.PopupConfig
	err := config.DB.Where("shop = ? AND is_active = ?", shop, true).
		Order("created_at desc").
		First(&row).Error
	if err != nil {
		// No active popup is a normal state for the storefront, not an error
		utils.LogDebug("No active popup for shop %s", shop)
		utils.Success(c, "No active popup", gin.H{
			"config": nil,
		})
		return
	}

	utils.Success(c, "Popup configuration", gin.H{
		"config": popupResponse(&row),
	})
}

// RecordPopupEventRequest is the storefront event payload
type RecordPopupEventRequest struct {
	Shop         string                 `json:"shop" binding:"required"`
	EventType    string                 `json:"eventType" binding:"required"`
	Email        string                 `json:"email"`
	DiscountCode string                 `json:"discountCode"`
	PrizeLabel   string                 `json:"prizeLabel"`
	SessionID    string                 `json:"sessionId"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// RecordPopupEvent appends one analytics row. The event log is append-only;
// the admin side only ever reads it.
func RecordPopupEvent(c *gin.Context) {
	var req RecordPopupEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid event payload: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.ValidShopDomain(req.Shop) {
		utils.LogError("Invalid shop domain on event: %s", req.Shop)
		utils.BadRequest(c, "Invalid shop domain", req.Shop)
		return
	}
	if !models.ValidEventType(req.EventType) {
		utils.LogError("Unknown event type: %s", req.EventType)
		utils.BadRequest(c, "Unknown event type", req.EventType)
		return
	}

	event := models.PopupAnalytics{
		Shop:      req.Shop,
		EventType: req.EventType,
		Timestamp: time.Now(),
		SessionID: req.SessionID,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
	if req.Email != "" {
		event.Email = &req.Email
	}
	if req.DiscountCode != "" {
		event.DiscountCode = &req.DiscountCode
	}
	if req.PrizeLabel != "" {
		event.PrizeLabel = &req.PrizeLabel
	}
	if req.Metadata != nil {
		if encoded, err := marshalSetting(req.Metadata); err == nil {
			event.Metadata = encoded
		} else {
			utils.LogError("Failed to encode event metadata, storing empty: %v", err)
		}
	}

	if err := config.DB.Create(&event).Error; err != nil {
		utils.LogError("Failed to record %s event for shop %s: %v", req.EventType, req.Shop, err)
		utils.InternalServerError(c, "Failed to record event", err.Error())
		return
	}

	utils.Created(c, "Event recorded", gin.H{
		"eventId": event.ID,
	})
}

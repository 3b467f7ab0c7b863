package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// SavePopupRequest is the admin save payload. Config carries the
// type-specific fields; PageTargeting may also arrive as a separate block.
type SavePopupRequest struct {
	Type          string                 `json:"type" binding:"required"`
	Config        map[string]interface{} `json:"config"`
	Name          string                 `json:"name"`
	PageTargeting map[string]interface{} `json:"pageTargeting"`
	PopupID       uint                   `json:"popupId"`
}

// SavePopup creates or fully replaces one popup configuration
func SavePopup(c *gin.Context) {
	utils.LogInfo("SavePopup called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.LogError("Shop missing from request context")
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	var req SavePopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid save request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !ValidPopupType(req.Type) {
		utils.LogError("Unsupported popup type: %s", req.Type)
		utils.BadRequest(c, "Unsupported popup type", req.Type)
		return
	}
	utils.LogDebug("Saving %s popup for shop %s", req.Type, shop)

	if req.Config == nil {
		req.Config = map[string]interface{}{}
	}
	if req.PageTargeting != nil {
		req.Config["pageTargeting"] = req.PageTargeting
	}

	merged := MergeConfig(req.Config, req.Type)

	if req.Type == models.PopupTypeWheelEmail {
		if errs := validateWheelSegments(merged); len(errs) > 0 {
			utils.LogError("Invalid wheel segments: %v", errs)
			utils.ValidationError(c, "Invalid wheel segments", errs)
			return
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to save popup", nil)
		return
	}

	var row models.PopupConfig
	if req.PopupID != 0 {
		if err := tx.Where("id = ? AND shop = ?", req.PopupID, shop).First(&row).Error; err != nil {
			tx.Rollback()
			utils.LogError("Popup %d not found for shop %s: %v", req.PopupID, shop, err)
			utils.NotFound(c, "Popup not found")
			return
		}
	} else {
		row = models.PopupConfig{Shop: shop}
	}

	if req.Name != "" {
		row.Name = TruncatePopupName(req.Name)
	} else if row.Name == "" {
		row.Name = DefaultPopupName(req.Type, time.Now())
	}

	if err := applySettingsToRow(&row, req.Type, merged); err != nil {
		tx.Rollback()
		utils.LogError("Failed to serialize popup settings: %v", err)
		utils.InternalServerError(c, "Failed to save popup", err.Error())
		return
	}

	// Saving always re-activates and refreshes updated_at
	row.IsActive = true
	row.UpdatedAt = time.Now()

	if err := tx.Save(&row).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to save popup for shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to save popup", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit popup save: %v", err)
		utils.InternalServerError(c, "Failed to save popup", nil)
		return
	}

	utils.LogInfo("Saved %s popup %d for shop %s", row.Type, row.ID, shop)
	utils.Success(c, "Popup saved successfully", gin.H{
		"config": popupResponse(&row),
	})
}

// validateWheelSegments rejects segments whose color is not a hex value.
// Labels may be empty; the widget renders a blank slice.
func validateWheelSegments(settings PopupSettings) utils.FieldValidationErrors {
	segments, ok := settings["segments"].([]models.WheelSegment)
	if !ok {
		return nil
	}
	var errs utils.FieldValidationErrors
	for i, seg := range segments {
		if seg.Color != "" && !utils.ValidHexColor(seg.Color) {
			errs = append(errs, utils.FieldValidationError{
				Field:   fmt.Sprintf("segments[%d].color", i),
				Message: "must be a hex color",
			})
		}
	}
	return errs
}

// GetPopupEditorConfig returns the complete settings object the editor
// opens with: the stored config when one exists, otherwise the type's
// defaults.
func GetPopupEditorConfig(c *gin.Context) {
	utils.LogInfo("GetPopupEditorConfig called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	popupType := c.DefaultQuery("type", models.PopupTypeEmail)
	if !ValidPopupType(popupType) {
		utils.LogError("Unsupported popup type requested: %s", popupType)
		utils.BadRequest(c, "Unsupported popup type", popupType)
		return
	}

	query := config.DB.Where("shop = ? AND type = ?", shop, popupType)
	if id := c.Query("popupId"); id != "" {
		query = config.DB.Where("shop = ? AND id = ?", shop, id)
	}

	var row models.PopupConfig
	if err := query.Order("created_at desc").First(&row).Error; err != nil {
		utils.LogDebug("No stored %s popup for shop %s, returning defaults", popupType, shop)
		utils.Success(c, "Default configuration", gin.H{
			"type":     popupType,
			"settings": BuildDefaultConfig(popupType),
			"saved":    false,
		})
		return
	}

	utils.LogDebug("Loaded popup %d for editor", row.ID)
	utils.Success(c, "Configuration retrieved", gin.H{
		"type":     row.Type,
		"settings": rowToSettings(&row),
		"saved":    true,
		"popupId":  row.ID,
		"name":     row.Name,
		"isActive": row.IsActive,
	})
}

// popupResponse is the SavedConfig shape shared by the save/list endpoints.
func popupResponse(row *models.PopupConfig) gin.H {
	return gin.H{
		"id":        row.ID,
		"shop":      row.Shop,
		"type":      row.Type,
		"name":      row.Name,
		"isActive":  row.IsActive,
		"settings":  rowToSettings(row),
		"createdAt": row.CreatedAt,
		"updatedAt": row.UpdatedAt,
	}
}

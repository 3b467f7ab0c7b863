package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// ListPopups returns every popup for the shop, newest first
func ListPopups(c *gin.Context) {
	utils.LogInfo("ListPopups called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	var rows []models.PopupConfig
	if err := config.DB.Where("shop = ?", shop).Order("created_at desc").Find(&rows).Error; err != nil {
		utils.LogError("Failed to list popups for shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to fetch popups", err.Error())
		return
	}
	utils.LogDebug("Found %d popups for shop %s", len(rows), shop)

	popups := make([]gin.H, 0, len(rows))
	for i := range rows {
		popups = append(popups, popupResponse(&rows[i]))
	}

	utils.Success(c, "Popups retrieved successfully", gin.H{
		"popups": popups,
		"total":  len(popups),
	})
}

// TogglePopupActiveRequest carries the client's view of the current state;
// the server stores its negation.
type TogglePopupActiveRequest struct {
	IsActive string `json:"isActive"`
}

// TogglePopupActive flips the active flag without touching any other field
func TogglePopupActive(c *gin.Context) {
	utils.LogInfo("TogglePopupActive called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	popupID := c.Param("id")
	if popupID == "" {
		utils.BadRequest(c, "Popup ID is required", nil)
		return
	}

	var row models.PopupConfig
	if err := config.DB.Where("id = ? AND shop = ?", popupID, shop).First(&row).Error; err != nil {
		utils.LogError("Popup %s not found for shop %s: %v", popupID, shop, err)
		utils.NotFound(c, "Popup not found")
		return
	}

	nextState := !row.IsActive
	var req TogglePopupActiveRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.IsActive != "" {
		if current, err := strconv.ParseBool(req.IsActive); err == nil {
			nextState = !current
		}
	}

	updates := map[string]interface{}{
		"is_active":  nextState,
		"updated_at": time.Now(),
	}
	if err := config.DB.Model(&row).Updates(updates).Error; err != nil {
		utils.LogError("Failed to toggle popup %s: %v", popupID, err)
		utils.InternalServerError(c, "Failed to update popup status", err.Error())
		return
	}

	action := "deactivated"
	if nextState {
		action = "activated"
	}
	utils.LogInfo("Popup %s %s for shop %s", popupID, action, shop)
	utils.Success(c, "Popup "+action+" successfully", gin.H{
		"popupId":  row.ID,
		"isActive": nextState,
	})
}

// DeletePopup hard-deletes one popup
func DeletePopup(c *gin.Context) {
	utils.LogInfo("DeletePopup called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	popupID := c.Param("id")
	if popupID == "" {
		utils.BadRequest(c, "Popup ID is required", nil)
		return
	}

	var row models.PopupConfig
	if err := config.DB.Where("id = ? AND shop = ?", popupID, shop).First(&row).Error; err != nil {
		utils.LogError("Popup %s not found for shop %s: %v", popupID, shop, err)
		utils.NotFound(c, "Popup not found")
		return
	}

	if err := config.DB.Delete(&row).Error; err != nil {
		utils.LogError("Failed to delete popup %s: %v", popupID, err)
		utils.InternalServerError(c, "Failed to delete popup", err.Error())
		return
	}

	utils.LogInfo("Deleted popup %s for shop %s", popupID, shop)
	utils.Success(c, "Popup deleted successfully", gin.H{
		"popupId": row.ID,
	})
}

// UpdatePopupNameRequest renames a popup without touching its settings
type UpdatePopupNameRequest struct {
	NewName string `json:"newName" binding:"required,max=50"`
}

// UpdatePopupName is a single-field update so it cannot clobber a
// concurrent full-config save.
func UpdatePopupName(c *gin.Context) {
	utils.LogInfo("UpdatePopupName called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	popupID := c.Param("id")
	if popupID == "" {
		utils.BadRequest(c, "Popup ID is required", nil)
		return
	}

	var req UpdatePopupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid rename request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var row models.PopupConfig
	if err := config.DB.Where("id = ? AND shop = ?", popupID, shop).First(&row).Error; err != nil {
		utils.LogError("Popup %s not found for shop %s: %v", popupID, shop, err)
		utils.NotFound(c, "Popup not found")
		return
	}

	newName := TruncatePopupName(req.NewName)
	updates := map[string]interface{}{
		"name":       newName,
		"updated_at": time.Now(),
	}
	if err := config.DB.Model(&row).Updates(updates).Error; err != nil {
		utils.LogError("Failed to rename popup %s: %v", popupID, err)
		utils.InternalServerError(c, "Failed to rename popup", err.Error())
		return
	}

	utils.LogInfo("Renamed popup %s to %q", popupID, newName)
	utils.Success(c, "Popup renamed successfully", gin.H{
		"popupId": row.ID,
		"name":    newName,
	})
}

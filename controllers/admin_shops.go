package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// GetShops lists installed shops for the ops console with search,
// pagination and sorting.
func GetShops(c *gin.Context) {
	utils.LogInfo("GetShops called")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sortBy := c.DefaultQuery("sort_by", "created_at")
	order := c.DefaultQuery("order", "desc")
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	query := config.DB.Model(&models.Shop{})
	if search != "" {
		query = query.Where("domain ILIKE ?", "%"+search+"%")
	}

	switch sortBy {
	case "domain":
		query = query.Order(fmt.Sprintf("domain %s", order))
	case "installed_at":
		query = query.Order(fmt.Sprintf("installed_at %s", order))
	default:
		query = query.Order(fmt.Sprintf("created_at %s", order))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count shops: %v", err)
		utils.InternalServerError(c, "Failed to count shops", err.Error())
		return
	}

	offset := (page - 1) * limit
	var shops []models.Shop
	if err := query.Offset(offset).Limit(limit).Find(&shops).Error; err != nil {
		utils.LogError("Failed to fetch shops: %v", err)
		utils.InternalServerError(c, "Failed to fetch shops", err.Error())
		return
	}
	utils.LogDebug("Found %d shops", len(shops))

	formatted := make([]gin.H, 0, len(shops))
	for _, shop := range shops {
		var popupCount int64
		config.DB.Model(&models.PopupConfig{}).Where("shop = ?", shop.Domain).Count(&popupCount)

		var subscriberCount int64
		config.DB.Model(&models.PopupAnalytics{}).
			Where("shop = ? AND event_type = ? AND email IS NOT NULL", shop.Domain, models.EventEmailEntered).
			Distinct("email").
			Count(&subscriberCount)

		formatted = append(formatted, gin.H{
			"id":               shop.ID,
			"domain":           shop.Domain,
			"is_active":        shop.IsActive,
			"installed_at":     shop.InstalledAt,
			"popup_count":      popupCount,
			"subscriber_count": subscriberCount,
		})
	}

	utils.Success(c, "Shops retrieved successfully", gin.H{
		"shops": formatted,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

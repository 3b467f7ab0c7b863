package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// DashboardOverview is the admin landing-page rollup for one shop
type DashboardOverview struct {
	TotalPopups    int64                   `json:"total_popups"`
	ActivePopups   int64                   `json:"active_popups"`
	TotalViews     int64                   `json:"total_views"`
	EmailEntries   int64                   `json:"email_entries"`
	Spins          int64                   `json:"spins"`
	Wins           int64                   `json:"wins"`
	CodesCopied    int64                   `json:"codes_copied"`
	ConversionRate float64                 `json:"conversion_rate"`
	RecentEvents   []models.PopupAnalytics `json:"recent_events"`
}

// GetDashboardOverview returns shop-wide popup performance for a period
func GetDashboardOverview(c *gin.Context) {
	utils.LogInfo("GetDashboardOverview called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	period := c.DefaultQuery("period", "month")
	now := time.Now()
	var startDate time.Time
	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "all":
		startDate = time.Time{}
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, month, or all")
		return
	}
	utils.LogDebug("Dashboard period %s for shop %s", period, shop)

	overview := DashboardOverview{}

	if err := config.DB.Model(&models.PopupConfig{}).Where("shop = ?", shop).Count(&overview.TotalPopups).Error; err != nil {
		utils.LogError("Failed to count popups: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}
	if err := config.DB.Model(&models.PopupConfig{}).Where("shop = ? AND is_active = ?", shop, true).Count(&overview.ActivePopups).Error; err != nil {
		utils.LogError("Failed to count active popups: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}

	eventCount := func(eventType string) (int64, error) {
		var count int64
		query := config.DB.Model(&models.PopupAnalytics{}).Where("shop = ? AND event_type = ?", shop, eventType)
		if !startDate.IsZero() {
			query = query.Where("timestamp >= ?", startDate)
		}
		err := query.Count(&count).Error
		return count, err
	}

	var err error
	if overview.TotalViews, err = eventCount(models.EventView); err != nil {
		utils.LogError("Failed to count views: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}
	if overview.EmailEntries, err = eventCount(models.EventEmailEntered); err != nil {
		utils.LogError("Failed to count email entries: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}
	if overview.Spins, err = eventCount(models.EventSpin); err != nil {
		utils.LogError("Failed to count spins: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}
	if overview.Wins, err = eventCount(models.EventWin); err != nil {
		utils.LogError("Failed to count wins: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}
	if overview.CodesCopied, err = eventCount(models.EventCopyCode); err != nil {
		utils.LogError("Failed to count copied codes: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}

	if overview.TotalViews > 0 {
		overview.ConversionRate = float64(overview.EmailEntries) / float64(overview.TotalViews) * 100
	}

	recentQuery := config.DB.Where("shop = ?", shop)
	if !startDate.IsZero() {
		recentQuery = recentQuery.Where("timestamp >= ?", startDate)
	}
	if err := recentQuery.Order("timestamp desc").Limit(10).Find(&overview.RecentEvents).Error; err != nil {
		utils.LogError("Failed to fetch recent events: %v", err)
		utils.InternalServerError(c, "Failed to get dashboard data", err.Error())
		return
	}

	utils.LogInfo("Dashboard overview prepared for shop %s", shop)
	utils.Success(c, "Dashboard data retrieved successfully", gin.H{
		"overview": overview,
		"period":   period,
	})
}

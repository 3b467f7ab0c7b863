package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// GetSubscribers answers "who are my popup subscribers and what did each
// one do". Two-phase fetch: the search narrows which subscribers are
// considered at all (email_entered rows only), then every event and
// discount code for the matched emails is loaded so each subscriber's
// history is complete. The summary is defined over the narrowed set, so
// the phases must not be collapsed into one query.
func GetSubscribers(c *gin.Context) {
	utils.LogInfo("GetSubscribers called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultSubscriberLimit)))
	search := c.Query("search")
	sortBy := c.DefaultQuery("sortBy", "timestamp")
	sortOrder := c.DefaultQuery("sortOrder", "desc")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultSubscriberLimit
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	utils.LogDebug("Subscriber query - shop: %s, page: %d, limit: %d, search: %q, sortBy: %s %s",
		shop, page, limit, search, sortBy, sortOrder)

	// Phase 1: candidate subscribers are emails with an email_entered event.
	// LIKE keeps the substring match case-sensitive.
	entryQuery := config.DB.Model(&models.PopupAnalytics{}).
		Where("shop = ? AND event_type = ? AND email IS NOT NULL", shop, models.EventEmailEntered)
	if search != "" {
		entryQuery = entryQuery.Where("email LIKE ?", "%"+search+"%")
	}

	var entryRows []models.PopupAnalytics
	if err := entryQuery.Find(&entryRows).Error; err != nil {
		utils.LogError("Failed to fetch email entries for shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to fetch subscribers", err.Error())
		return
	}

	emailSet := make(map[string]bool)
	emails := make([]string, 0)
	for i := range entryRows {
		if entryRows[i].Email == nil {
			continue
		}
		email := *entryRows[i].Email
		if email != "" && !emailSet[email] {
			emailSet[email] = true
			emails = append(emails, email)
		}
	}
	utils.LogDebug("Found %d candidate subscribers", len(emails))

	if len(emails) == 0 {
		_, pagination := PaginateSubscribers(nil, page, limit)
		utils.Success(c, "Subscribers retrieved successfully", gin.H{
			"subscribers": []SubscriberAggregate{},
			"pagination":  pagination,
			"summary":     SummarizeSubscribers(nil, time.Now()),
		})
		return
	}

	// Phase 2: widen to every event type and discount code for those emails
	var events []models.PopupAnalytics
	if err := config.DB.Where("shop = ? AND email IN ?", shop, emails).Find(&events).Error; err != nil {
		utils.LogError("Failed to fetch event history for shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to fetch subscribers", err.Error())
		return
	}

	var discounts []models.DiscountCode
	if err := config.DB.Where("shop = ? AND email IN ?", shop, emails).Find(&discounts).Error; err != nil {
		utils.LogError("Failed to fetch discount codes for shop %s: %v", shop, err)
		utils.InternalServerError(c, "Failed to fetch subscribers", err.Error())
		return
	}
	utils.LogDebug("Aggregating %d events and %d discount codes", len(events), len(discounts))

	subscribers := BuildSubscriberAggregates(events, discounts)
	SortSubscriberAggregates(subscribers, sortBy, sortOrder)
	summary := SummarizeSubscribers(subscribers, time.Now())
	pageRows, pagination := PaginateSubscribers(subscribers, page, limit)

	utils.LogInfo("Returning %d of %d subscribers for shop %s", len(pageRows), pagination.Total, shop)
	utils.Success(c, "Subscribers retrieved successfully", gin.H{
		"subscribers": pageRows,
		"pagination":  pagination,
		"summary":     summary,
	})
}

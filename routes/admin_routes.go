package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/controllers"
	"github.com/popreach/popreach/middleware"
)

// initAdminRoutes initializes the merchant-facing admin routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.ShopAuthMiddleware())
	{
		// Popup management
		admin.POST("/popups", controllers.SavePopup)
		admin.GET("/popups", controllers.ListPopups)
		admin.GET("/popups/config", controllers.GetPopupEditorConfig)
		admin.PATCH("/popups/:id/toggle", controllers.TogglePopupActive)
		admin.PATCH("/popups/:id/name", controllers.UpdatePopupName)
		admin.DELETE("/popups/:id", controllers.DeletePopup)

		// Subscribers and analytics
		admin.GET("/subscribers", controllers.GetSubscribers)
		admin.GET("/subscribers/export", controllers.ExportSubscribers)
		admin.POST("/subscribers/report", controllers.EmailSubscriberReport)
		admin.GET("/dashboard", controllers.GetDashboardOverview)
		admin.GET("/embed-status", controllers.GetEmbedStatus)
	}
}

// initOpsRoutes initializes the ops-console routes
func initOpsRoutes(router *gin.RouterGroup) {
	ops := router.Group("/ops")
	{
		ops.POST("/login", controllers.OpsLogin)

		ops.Use(middleware.OpsAuthMiddleware())
		{
			ops.GET("/shops", controllers.GetShops)
		}
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/popreach/popreach/controllers"
	"github.com/popreach/popreach/utils"
)

// initAuthRoutes initializes the Shopify OAuth install flow
func initAuthRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.GET("/install", controllers.ShopifyInstall)
		auth.GET("/callback", controllers.ShopifyCallback)
	}
}

// initPublicRoutes initializes the storefront-facing routes. These are
// called from shoppers' browsers and carry no merchant credentials.
func initPublicRoutes(router *gin.Engine) {
	public := router.Group("/public")
	public.Use(utils.StorefrontCORSMiddleware())
	{
		public.GET("/popup", controllers.GetStorefrontConfig)
		public.POST("/events", controllers.RecordPopupEvent)
	}
}

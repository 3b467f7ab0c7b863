package main

import (
	"log"

	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/controllers"
	"github.com/popreach/popreach/routes"
	"github.com/popreach/popreach/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create ops console admin
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create ops admin: %v", err)
		log.Fatal("Failed to create ops admin:", err)
	}

	// Initialize Shopify OAuth
	config.InitShopifyOAuth()

	// Set up router
	router := routes.SetupRouter()

	// Add middleware
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	// Start server
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

package main

import (
	"log"

	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/controllers"
	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/routes"
	"github.com/packkart/PackKart/utils"
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

	// Build the pricing engine and hand it to the controllers
	validator := pricing.NewValidator(utils.CouponStore{})
	resolver := pricing.NewResolver(utils.GiftStore{})
	sessions := pricing.NewManager(validator, resolver)
	controllers.InitEngine(sessions, validator, resolver)

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
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

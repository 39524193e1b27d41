package main

import (
	"log"
	"net/http"
	"os"

	"pizzabot-api/chatbot"
	"pizzabot-api/config"
	"pizzabot-api/handlers"
	"pizzabot-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	// Initialize the remote store and demo data
	config.InitStore()
	config.SeedDemoData()

	// Wire the chatbot core into the HTTP surface
	bot := chatbot.New(config.Store, logger)
	handlers.InitChat(bot, logger)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Session-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "PizzaBot Ordering Chat API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍕 Welcome to the PizzaBot Ordering Chat API",
			"chat":    "/api/chat",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "employee", "deliveryman", "admin"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newLogger() (*zap.Logger, error) {
	if gin.Mode() == gin.DebugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

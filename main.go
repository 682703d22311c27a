package main

import (
	"log"
	"net/http"

	"oil-tracker/internal/api"
	"oil-tracker/internal/config"
	"oil-tracker/internal/database"
	"oil-tracker/internal/ingest"
	"oil-tracker/internal/services/crudeoil"
	"oil-tracker/internal/services/mailer"
	"oil-tracker/internal/services/scraper"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize services
	scraperSvc := scraper.New(cfg.ScrapeURL)
	crudeSvc := crudeoil.New()
	mailerSvc := mailer.New(mailer.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		To:   cfg.AlertEmail,
	})
	pipeline := &ingest.Pipeline{
		DB:                 db,
		Scraper:            scraperSvc,
		Crude:              crudeSvc,
		Mailer:             mailerSvc,
		PplChangeThreshold: cfg.PplChangeThreshold,
	}

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	handler := api.SetupRoutes(apiGroup, db, cfg, pipeline, crudeSvc)

	// Live snapshot updates for the dashboard
	r.GET("/ws", handler.WebsocketHub().Handle)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

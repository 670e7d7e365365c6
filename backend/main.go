package main

import (
	"context"
	"log"
	"time"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/routes"
	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Catalog cache is optional; the service runs without it
	var cache *services.Cache
	if cfg.RedisURL != "" {
		cache, err = services.NewCache(context.Background(), cfg.RedisURL, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		if err != nil {
			logger.Printf("cache disabled: %v", err)
			cache = nil
		}
	}

	gen := services.NewContentGenerator(cfg.ContentGenURL, cfg.CertificateGenURL)
	svc := services.New(services.NewGormStore(db), cache, gen, logger)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, svc, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}

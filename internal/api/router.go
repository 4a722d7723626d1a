package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/api/handlers"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/api/middleware"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient handlers.IAsynqClient) *gin.Engine {
	// Initialize services needed by API handlers
	catalogService := services.NewCatalogService(db, cfg, rdb)
	availabilityService := services.NewAvailabilityService(db, cfg)
	bookingService := services.NewBookingService(db, cfg, catalogService, availabilityService)
	safariService := services.NewSafariService(db, cfg)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Global middleware, order matters
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	jsonApiHandler := handlers.NewJsonApiHandler(
		cfg, db, rdb, taskClient, catalogService, availabilityService, bookingService, safariService)
	restCatalogHandler := handlers.NewRestCatalogHandler(catalogService, availabilityService)

	v1 := r.Group("/v1")
	{
		v1.POST("/api", jsonApiHandler.HandleRequest)

		// Cottage routes
		v1.GET("/cottage", restCatalogHandler.ListCottages)
		v1.GET("/cottage/:id", restCatalogHandler.GetCottageByID)
		v1.GET("/cottage/:id/availability", restCatalogHandler.GetCottageAvailability)

		// Package routes
		v1.GET("/package", restCatalogHandler.ListPackages)
		v1.GET("/package/:id", restCatalogHandler.GetPackageByID)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	}

	return r
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bgsummarizer/internal/compare"
	"bgsummarizer/internal/extract"
)

// SetupRoutes configures all HTTP routes for the server
func SetupRoutes(router *gin.Engine) {
	models := ModelsFromEnvironment()
	extractor := extract.New(extract.DefaultConfig())
	comparator := compare.NewComparator(BackendFromEnvironment())
	summarize := NewSummarizeHandler(extractor, comparator, models)

	// Apply global middleware in order
	router.Use(RecoveryMiddleware())        // Recover from panics
	router.Use(SecurityHeadersMiddleware()) // Add security headers
	router.Use(CORSMiddleware())            // Handle CORS
	router.Use(RequestIDMiddleware())       // Assign request IDs
	router.Use(LoggingMiddleware())         // Log requests

	// API routes group
	api := router.Group("/api")
	{
		// Health check endpoint
		api.GET("/health", HealthHandler)

		// Configured models and their family classification
		api.GET("/models", ModelsHandler(comparator, models))

		// Comparison batch execution
		api.POST("/summarize", summarize.Handle)
	}

	// Root endpoint - API info
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Board Game Summarizer API",
			"version": "1.0.0",
			"status":  "ok",
			"endpoints": gin.H{
				"health":    "/api/health",
				"models":    "/api/models",
				"summarize": "/api/summarize",
			},
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "The requested endpoint does not exist",
			Code:    http.StatusNotFound,
		})
	})
}

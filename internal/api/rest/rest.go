package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Batch issuance
		v1.POST("/batches", handler.IssueBatch)

		// Print document generation
		v1.GET("/batches/:id/document", handler.GetBatchDocument)
	}
}

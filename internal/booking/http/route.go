package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking lifecycle routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bookings")
	{
		group.GET("", h.List)                                  // List bookings
		group.POST("/check-availability", h.CheckAvailability) // Check a slot without booking it
		group.GET("/:id", h.Get)                               // Get booking details
		group.POST("", h.Create)                               // Create booking
		group.PUT("/:id", h.Update)                            // Modify booking (once)
		group.POST("/:id/cancel", h.Cancel)                    // Soft-cancel booking
		group.DELETE("/:id", h.Delete)                         // Delete booking record
	}
}

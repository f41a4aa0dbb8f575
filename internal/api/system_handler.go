package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/conference-booking-backend/internal/room"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MigrateFunc applies the database schema.
type MigrateFunc func(ctx context.Context) error

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type InitDBResponse struct {
	Message     string `json:"message"`
	RoomsSeeded int    `json:"rooms_seeded"`
}

type SystemHandler struct {
	db      Pinger
	migrate MigrateFunc
	rooms   room.Service
}

func NewSystemHandler(db Pinger, migrate MigrateFunc, rooms room.Service) *SystemHandler {
	return &SystemHandler{
		db:      db,
		migrate: migrate,
		rooms:   rooms,
	}
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: "disconnected"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Database: "connected"})
}

// InitDB applies the schema and seeds the default rooms when the catalog is
// empty. Running it again is harmless.
func (h *SystemHandler) InitDB(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.migrate(ctx); err != nil {
		response.Error(c, err)
		return
	}

	seeded, err := h.rooms.Seed(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, InitDBResponse{
		Message:     "database initialized",
		RoomsSeeded: seeded,
	})
}

// RegisterSystemRoutes registers health and maintenance routes.
func RegisterSystemRoutes(g *gin.RouterGroup, h *SystemHandler) {
	g.GET("/health", h.Health)   // Liveness with database check
	g.POST("/init-db", h.InitDB) // Apply schema and seed rooms
}

package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/conference-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/conference-booking-backend/internal/room"
	roomHttp "github.com/nekogravitycat/conference-booking-backend/internal/room/http"
)

// Config holds everything the router needs to build handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	Logger         *logger.Logger
	RoomService    room.Service
	BookingService booking.Service
	Rates          roomHttp.RateLookup

	DB      Pinger
	Migrate MigrateFunc
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (request logging, recovery, CORS) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Tags each request with an id and logs its outcome.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(cfg.Logger), Recovery(cfg.Logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	if len(config.AllowOrigins) > 0 {
		r.Use(cors.New(config))
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	roomHandler := roomHttp.NewHandler(cfg.RoomService, cfg.Rates)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	systemHandler := NewSystemHandler(cfg.DB, cfg.Migrate, cfg.RoomService)

	// Register API routes under /api
	apiGroup := r.Group("/api")
	{
		roomHttp.RegisterRoutes(apiGroup, roomHandler)
		bookingHttp.RegisterRoutes(apiGroup, bookingHandler)
		RegisterSystemRoutes(apiGroup, systemHandler)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

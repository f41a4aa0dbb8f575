package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/conference-booking-backend/internal/api"
	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	"github.com/nekogravitycat/conference-booking-backend/internal/db"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/conference-booking-backend/internal/pricing"
	"github.com/nekogravitycat/conference-booking-backend/internal/room"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *logger.Logger
	Publisher    booking.Publisher
	Rates        pricing.Rates
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	RoomService    room.Service
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.Rates == nil {
		cfg.Rates = pricing.DefaultRates()
	}

	// Pricing
	calculator := pricing.NewCalculator(cfg.Rates, pricing.DefaultRate)

	// Room Module
	roomRepo := room.NewPgxRepository(cfg.DBPool)
	roomService := room.NewService(roomRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, roomService, calculator, cfg.Publisher)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		RoomService:    roomService,
		BookingService: bookingService,
		Rates:          calculator,
		DB:             cfg.DBPool,
		Migrate: func(ctx context.Context) error {
			return db.Migrate(ctx, cfg.DBPool)
		},
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		RoomService:    roomService,
		BookingService: bookingService,
	}
}

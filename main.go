package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/stayware/booking-service/config"
	"github.com/stayware/booking-service/internal/cache"
	"github.com/stayware/booking-service/internal/handler"
	"github.com/stayware/booking-service/internal/middleware"
	"github.com/stayware/booking-service/internal/repository"
	"github.com/stayware/booking-service/internal/service"
	"github.com/stayware/booking-service/internal/worker"
	"github.com/stayware/booking-service/pkg/database"
	"github.com/stayware/booking-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	availabilityIndex := repository.NewAvailabilityIndex(db)

	// Service
	bookingSvc := service.NewBookingService(roomRepo, guestRepo, reservationRepo, availabilityIndex, publisher)

	// Completion sweeper: confirmed reservations past checkout become completed
	completion := worker.NewCompletionWorker(reservationRepo, bookingSvc, cfg.CompletionInterval)
	completion.Start(context.Background())

	roomCache := cache.NewRoomCache(cfg.RoomCacheTTL)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "booking-service"})
	})

	handler.NewBookingHandler(bookingSvc, roomRepo, roomCache).RegisterRoutes(e)
	handler.NewAdminHandler(bookingSvc, roomRepo, propertyRepo, guestRepo, reservationRepo, roomCache, cfg.JWTSecret).RegisterRoutes(e)

	log.Printf("Booking Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

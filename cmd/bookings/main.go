package main

import (
	"innstay/internal/bookings/events"
	"innstay/internal/bookings/handler"
	"innstay/internal/bookings/repository"
	"innstay/internal/bookings/service"
	"innstay/internal/bookings/validator"
	ratesrepository "innstay/internal/seasonalrates/repository"
	ratesservice "innstay/internal/seasonalrates/service"
	ratesvalidator "innstay/internal/seasonalrates/validator"
	"innstay/pkg/app"
	"innstay/pkg/config"
	"innstay/pkg/pricing"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	bookingService, availabilityService := initServices(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) (service.BookingService, service.AvailabilityService) {
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	lockRepo := repository.NewMongoPropertyLockRepository(cfg)

	// Seasonal-rate reads share the database with the rates service;
	// only that service performs writes.
	ratesRepo := ratesrepository.NewMongoSeasonalRateRepository(cfg)
	rateService := ratesservice.NewSeasonalRateService(ratesRepo, ratesvalidator.NewSeasonalRateValidator(cfg.Log), cfg)

	availabilityService := service.NewAvailabilityService(reservationRepo, cfg)
	bookingService := service.NewBookingService(
		reservationRepo,
		propertyRepo,
		lockRepo,
		rateService,
		pricing.NewCalculator(nil),
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return bookingService, availabilityService
}

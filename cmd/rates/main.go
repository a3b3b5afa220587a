package main

import (
	"innstay/internal/seasonalrates/handler"
	"innstay/internal/seasonalrates/repository"
	"innstay/internal/seasonalrates/service"
	"innstay/internal/seasonalrates/validator"
	"innstay/pkg/app"
	"innstay/pkg/config"
)

const ServiceName = "rates"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Seasonal Rates service")
	rateService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSeasonalRateHandler(rateService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SeasonalRateService {
	rateValidator := validator.NewSeasonalRateValidator(cfg.Log)
	rateRepo := repository.NewMongoSeasonalRateRepository(cfg)
	rateService := service.NewSeasonalRateService(rateRepo, rateValidator, cfg)

	cfg.Log.Info("Seasonal rate service initialized", "database", cfg.MongoDatabaseName)
	return rateService
}

// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/api"
	"github.com/Vedant817/flow-pilot/backend-go/internal/cache"
	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/Vedant817/flow-pilot/backend-go/internal/repository"
	"github.com/Vedant817/flow-pilot/backend-go/internal/repository/postgres"
	"github.com/Vedant817/flow-pilot/backend-go/internal/service"
	"github.com/Vedant817/flow-pilot/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	defaults := service.ParamsFromConfig(cfg.Forecast)
	if err := defaults.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid forecast configuration")
	}

	forecastService := service.NewForecastService(
		repository.NewOrderRepository(db.DB),
		repository.NewInventoryRepository(db.DB),
		forecastCache,
		forecast.NewEngine(logger.Component("forecast")),
		defaults,
	)

	router := api.NewRouter(&api.Services{ForecastService: forecastService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// in-flight requests get 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

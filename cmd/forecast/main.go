// cmd/forecast/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/Vedant817/flow-pilot/backend-go/internal/repository"
	"github.com/Vedant817/flow-pilot/backend-go/internal/service"
	"github.com/Vedant817/flow-pilot/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

func main() {
	cfg := config.Load()
	defaults := service.ParamsFromConfig(cfg.Forecast)

	dbURL := flag.String("db-url", os.Getenv("DATABASE_URL"), "Database connection string")
	windowDays := flag.Int("window-days", defaults.WindowDays, "Trailing days of order history to analyse")
	leadTimeDays := flag.Int("lead-time-days", defaults.LeadTimeDays, "Default supplier lead time in days")
	serviceLevel := flag.Float64("service-level", defaults.ServiceLevel, "Target probability of not stocking out")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	pretty := flag.Bool("pretty", true, "Indent the JSON report")
	flag.Parse()

	// stdout carries the report
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.Server.LogLevel)
	if *dbURL == "" {
		logger.Log.Fatal().Msg("Database URL is required (use -db-url flag or DATABASE_URL)")
	}

	params := defaults
	params.WindowDays = *windowDays
	params.LeadTimeDays = *leadTimeDays
	params.ServiceLevel = *serviceLevel
	if err := params.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid parameters")
	}

	db, err := sql.Open("pgx", *dbURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	dbx := sqlx.NewDb(db, "pgx")

	svc := service.NewForecastService(
		repository.NewOrderRepository(dbx),
		repository.NewInventoryRepository(dbx),
		nil,
		forecast.NewEngine(logger.Component("forecast")),
		defaults,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	report, err := svc.GetForecast(ctx, params)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to generate inventory analytics")
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to write report")
	}

	logger.Log.Info().
		Int("products", report.Summary.TotalProductsAnalyzed).
		Int("flagged", len(report.UrgentRestocking)).
		Dur("elapsed", time.Since(start)).
		Msg("Forecast complete")
}

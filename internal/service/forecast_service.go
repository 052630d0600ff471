package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/cache"
	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/Vedant817/flow-pilot/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrAnalysisFailed wraps any failure reading the inputs of an analysis.
var ErrAnalysisFailed = errors.New("forecast analysis failed")

type ForecastService struct {
	orders    repository.OrderRepository
	inventory repository.InventoryRepository
	cache     cache.ForecastCache
	engine    *forecast.Engine
	defaults  forecast.Params
	now       func() time.Time
}

func NewForecastService(
	orders repository.OrderRepository,
	inventory repository.InventoryRepository,
	cacheImpl cache.ForecastCache,
	engine *forecast.Engine,
	defaults forecast.Params,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		orders:    orders,
		inventory: inventory,
		cache:     cacheImpl,
		engine:    engine,
		defaults:  defaults,
		now:       time.Now,
	}
}

// ParamsFromConfig maps configured defaults onto analysis parameters.
func ParamsFromConfig(cfg config.ForecastConfig) forecast.Params {
	return forecast.Params{
		WindowDays:          cfg.WindowDays,
		LeadTimeDays:        cfg.LeadTimeDays,
		ServiceLevel:        cfg.ServiceLevel,
		OrderCost:           cfg.OrderCost,
		HoldingCostRate:     cfg.HoldingCostRate,
		StockoutHorizonDays: cfg.StockoutHorizonDays,
	}
}

// Defaults returns the parameters applied when a request overrides nothing.
func (s *ForecastService) Defaults() forecast.Params {
	return s.defaults
}

// GetForecast reads orders and inventory concurrently and runs the forecasting engine.
func (s *ForecastService) GetForecast(ctx context.Context, params forecast.Params) (*domain.ForecastReport, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	if report, ok, err := s.cache.GetReport(ctx, params, now); err == nil && ok {
		return restamp(report, now), nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get report failed")
	}

	// one extra day covers order timestamps carrying a UTC offset
	since := forecast.NewWindow(now, params.WindowDays).Start.AddDate(0, 0, -1)

	var (
		orders    []domain.OrderRecord
		inventory []domain.InventoryRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.FetchOrders(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = s.inventory.FetchInventory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	report, err := s.engine.Analyze(orders, inventory, params, now)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetReport(ctx, params, now, report); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set report failed")
	}

	return report, nil
}

// restamp returns a copy of a cached report carrying the time it was served.
func restamp(cached *domain.ForecastReport, now time.Time) *domain.ForecastReport {
	report := *cached
	report.GeneratedAt = now.UTC()
	report.NextAnalysisRecommended = report.GeneratedAt.Add(forecast.NextAnalysisAfter)
	return &report
}

package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	forecastReportKeyPrefix = "forecast:report"
	scanBatchSize           = 100
)

// ForecastCache stores finished reports keyed by analysis parameters and day.
type ForecastCache interface {
	GetReport(ctx context.Context, params forecast.Params, day time.Time) (*domain.ForecastReport, bool, error)
	SetReport(ctx context.Context, params forecast.Params, day time.Time, report *domain.ForecastReport) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetReport(ctx context.Context, params forecast.Params, day time.Time) (*domain.ForecastReport, bool, error) {
	key := buildForecastReportKey(params, day)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.ForecastReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode forecast report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisForecastCache) SetReport(ctx context.Context, params forecast.Params, day time.Time, report *domain.ForecastReport) error {
	key := buildForecastReportKey(params, day)
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode forecast report cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	deleted, err := purgeForecastReports(ctx, c.client)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", deleted).Msg("forecast: cached reports invalidated")
	return nil
}

func (n *noopForecastCache) GetReport(ctx context.Context, params forecast.Params, day time.Time) (*domain.ForecastReport, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetReport(ctx context.Context, params forecast.Params, day time.Time, report *domain.ForecastReport) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildForecastReportKey scopes a report to its parameters and the UTC day the
// window ends on, so a cached report never outlives its window.
func buildForecastReportKey(params forecast.Params, day time.Time) string {
	raw := fmt.Sprintf("window=%d|lead=%d|service=%g|order=%g|holding=%g|horizon=%d|day=%s",
		params.WindowDays,
		params.LeadTimeDays,
		params.ServiceLevel,
		params.OrderCost,
		params.HoldingCostRate,
		params.StockoutHorizonDays,
		day.UTC().Format("2006-01-02"),
	)
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", forecastReportKeyPrefix, hex.EncodeToString(hash[:]))
}

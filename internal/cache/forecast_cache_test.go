package cache

import (
	"context"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildForecastReportKey(t *testing.T) {
	params := forecast.DefaultParams()
	day := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)

	key := buildForecastReportKey(params, day)
	assert.True(t, strings.HasPrefix(key, forecastReportKeyPrefix+":"))
	matched, err := path.Match(forecastReportPattern(), key)
	require.NoError(t, err)
	assert.True(t, matched, "invalidation pattern must cover report keys")

	// same UTC day, different clock time
	assert.Equal(t, key, buildForecastReportKey(params, day.Add(13*time.Hour)))
	assert.NotEqual(t, key, buildForecastReportKey(params, day.Add(14*time.Hour)))

	other := params
	other.ServiceLevel = 0.9
	assert.NotEqual(t, key, buildForecastReportKey(other, day))
}

func TestNewForecastCache_DisabledIsNoop(t *testing.T) {
	c, err := NewForecastCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	params := forecast.DefaultParams()
	now := time.Now()

	require.NoError(t, c.SetReport(ctx, params, now, &domain.ForecastReport{}))
	report, ok, err := c.GetReport(ctx, params, now)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, report)
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, redisClientName, opts.ClientName)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@cache:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, redisClientName, opts.ClientName)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://cache:6379/0?client_name=ops"})
	require.NoError(t, err)
	assert.Equal(t, "ops", opts.ClientName)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}

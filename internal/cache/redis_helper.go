package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = time.Minute
	redisClientName = "flowpilot-forecast"
)

// newRedisClient connects and pings Redis, returning the client with the configured TTL.
func newRedisClient(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ForecastTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return client, ttl, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if opt.ClientName == "" {
			opt.ClientName = redisClientName
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:       net.JoinHostPort(host, port),
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		ClientName: redisClientName,
	}, nil
}

// forecastReportPattern matches every key written by buildForecastReportKey.
func forecastReportPattern() string {
	return forecastReportKeyPrefix + ":*"
}

// purgeForecastReports deletes all cached reports and returns how many keys went.
func purgeForecastReports(ctx context.Context, client *redis.Client) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, forecastReportPattern(), scanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis scan %s failed: %w", forecastReportPattern(), err)
		}

		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis delete of %d forecast reports failed: %w", len(keys), err)
			}
			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/observability"
	"github.com/odyssey-erp/odyssey-catalog/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-catalog/internal/platform/db"
	"github.com/odyssey-erp/odyssey-catalog/internal/platform/kafka"
	"github.com/odyssey-erp/odyssey-catalog/internal/store/memory"
	"github.com/odyssey-erp/odyssey-catalog/internal/store/postgres"
)

// Deps holds the collaborators shared by the server, the worker and the
// operational commands.
type Deps struct {
	Store        catalog.Store
	Postgres     *postgres.Store
	Service      *catalog.Service
	Cache        *catalog.Cache
	Redis        *redis.Client
	HealthChecks map[string]HealthCheck

	closers []func()
}

// BuildDeps connects the configured store, cache and event producer and
// assembles the catalog service. Redis and Kafka are optional: when Redis is
// unreachable the service runs uncached.
func BuildDeps(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*Deps, error) {
	if cfg == nil {
		return nil, errors.New("app: config required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Deps{HealthChecks: map[string]HealthCheck{}}

	switch cfg.StoreDriver {
	case StoreDriverMemory:
		d.Store = memory.New()
		logger.Warn("using in-memory catalog store; data is lost on restart")
	default:
		pool, err := db.New(ctx, cfg.PoolConfig())
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, pool.Close)
		d.Postgres = postgres.New(pool)
		if cfg.PGMigrate {
			if err := d.Postgres.Migrate(ctx); err != nil {
				d.Close()
				return nil, err
			}
		}
		d.Store = d.Postgres
		d.HealthChecks["postgres"] = d.Postgres.Ping
	}

	if cfg.RedisAddr != "" {
		client, err := cache.New(ctx, cfg.RedisOptions())
		if err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
		} else {
			d.Redis = client
			d.closers = append(d.closers, func() {
				if err := client.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			})
			d.Cache = catalog.NewCache(client, cfg.CacheTTL, logger)
			d.HealthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	var publisher catalog.Publisher
	if cfg.KafkaEnabled() && !InTestMode() {
		producer, err := kafka.NewProducer(cfg.KafkaConfig(), logger)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("app: kafka producer: %w", err)
		}
		d.closers = append(d.closers, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka close", slog.Any("error", err))
			}
		})
		publisher = catalog.NewBrokerPublisher(producer, metrics.ObserveEvent)
	}

	d.Service = catalog.NewService(d.Store, catalog.Options{
		Cache:     d.Cache,
		Publisher: publisher,
		Defaults:  cfg.CatalogDefaults(),
		Logger:    logger,
	})
	return d, nil
}

// AsynqRedis returns the asynq connection options for the configured Redis.
func (c *Config) AsynqRedis() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

// Close releases resources in reverse acquisition order.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

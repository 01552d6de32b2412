package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	jobmetrics "github.com/odyssey-erp/odyssey-catalog/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

type warmStep struct {
	name string
	run  func(context.Context) error
}

// CacheWarmupJob pre-populates the cached catalog reads.
type CacheWarmupJob struct {
	Catalog *catalog.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCacheWarmupJob wires dependencies for the warmup handler.
func NewCacheWarmupJob(svc *catalog.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheWarmupJob {
	return &CacheWarmupJob{Catalog: svc, Logger: logger, Metrics: metrics}
}

// Handle processes cache warmup tasks.
func (j *CacheWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Catalog == nil {
		return errors.New("cache warmup: handler not configured")
	}
	var payload CacheWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := metricsOrDefault(j.Metrics).Track(TaskCacheWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskCacheWarmup)
	start := time.Now()
	if payload.Invalidate {
		if err := j.Catalog.InvalidateCache(ctx); err != nil {
			logger.Warn("invalidate catalog cache", slog.Any("error", err))
		}
	}

	steps := []warmStep{
		{"promotions", func(ctx context.Context) error { _, err := j.Catalog.Promotions(ctx); return err }},
		{"launches", func(ctx context.Context) error { _, err := j.Catalog.Launches(ctx, nil); return err }},
		{"categories", func(ctx context.Context) error { _, err := j.Catalog.Categories(ctx); return err }},
		{"brands", func(ctx context.Context) error { _, err := j.Catalog.Brands(ctx); return err }},
		{"summary", func(ctx context.Context) error { _, err := j.Catalog.Summary(ctx); return err }},
	}
	for _, days := range payload.LaunchDays {
		days := days
		steps = append(steps, warmStep{"launches", func(ctx context.Context) error { _, err := j.Catalog.Launches(ctx, &days); return err }})
	}

	warmed := 0
	for _, step := range steps {
		stepCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		err := step.run(stepCtx)
		cancel()
		if err != nil {
			logger.Error("warm catalog read", slog.String("read", step.name), slog.Any("error", err))
			return err
		}
		warmed++
	}
	metricsOrDefault(j.Metrics).AddWarmed(warmed)
	logger.Info("completed catalog cache warmup", slog.Int("reads", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}

func jobLogger(logger *slog.Logger, job string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("job", job))
}

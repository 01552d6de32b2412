package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	jobmetrics "github.com/odyssey-erp/odyssey-catalog/internal/jobs"
)

const defaultLowStockLogLimit = 50

// LowStockScanJob publishes the number of low stock products as a gauge.
type LowStockScanJob struct {
	Catalog *catalog.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(svc *catalog.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Catalog: svc, Logger: logger, Metrics: metrics}
}

// Handle processes low stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Catalog == nil {
		return errors.New("low stock scan: handler not configured")
	}
	payload := LowStockScanPayload{LogLimit: defaultLowStockLogLimit}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	metrics := metricsOrDefault(j.Metrics)
	tracker := metrics.Track(TaskLowStockScan)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskLowStockScan)
	items, err := j.Catalog.LowStock(ctx)
	if err != nil {
		logger.Error("load low stock products", slog.Any("error", err))
		return err
	}
	metrics.SetLowStock(len(items))

	limit := payload.LogLimit
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	for _, item := range items[:limit] {
		logger.Warn("product below stock minimum",
			slog.String("code", item.Code),
			slog.Int("stock", item.Stock),
		)
	}
	logger.Info("completed low stock scan", slog.Int("products", len(items)))
	return nil
}

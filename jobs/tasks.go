package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCacheWarmup refills the cached catalog reads.
	TaskCacheWarmup = "catalog:cache_warmup"
	// TaskLowStockScan counts low stock products.
	TaskLowStockScan = "catalog:low_stock_scan"
)

// CacheWarmupPayload configures a warmup run.
type CacheWarmupPayload struct {
	// Invalidate bumps the cache version before refilling.
	Invalidate bool `json:"invalidate"`
	// LaunchDays lists extra launch windows to warm besides the default one.
	LaunchDays []int `json:"launch_days,omitempty"`
}

// LowStockScanPayload configures a low stock scan.
type LowStockScanPayload struct {
	// LogLimit caps how many product codes are logged.
	LogLimit int `json:"log_limit"`
}

// NewCacheWarmupTask constructs an Asynq task for the cache warmup.
func NewCacheWarmupTask(payload CacheWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal cache warmup payload: %w", err)
	}
	return asynq.NewTask(TaskCacheWarmup, data), nil
}

// NewLowStockScanTask constructs an Asynq task for the low stock scan.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal low stock payload: %w", err)
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	jobmetrics "github.com/odyssey-erp/odyssey-catalog/internal/jobs"
	"github.com/odyssey-erp/odyssey-catalog/internal/store/memory"
)

func newCatalog(t *testing.T, cache *catalog.Cache) *catalog.Service {
	t.Helper()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := catalog.NewService(memory.New(), catalog.Options{Cache: cache, Clock: func() time.Time { return now }})
	ctx := context.Background()
	for _, in := range []products.CreateInput{
		{Code: "TOR-001", Name: "Tornillo 1/4", Stock: 2},
		{Code: "TOR-002", Name: "Tornillo 3/8", Stock: 40},
		{Code: "TUE-001", Name: "Tuerca 1/4", Stock: 5},
	} {
		price := decimal.NewFromInt(150)
		in.Price = &price
		_, err := svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}
	return svc
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() == name {
			return fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestLowStockScanSetsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	job := NewLowStockScanJob(newCatalog(t, nil), nil, metrics)

	task, err := NewLowStockScanTask(LowStockScanPayload{LogLimit: 1})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 2.0, gaugeValue(t, reg, "catalog_low_stock_products"))
}

func TestLowStockScanRejectsBadPayload(t *testing.T) {
	job := NewLowStockScanJob(newCatalog(t, nil), nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	err := job.Handle(context.Background(), asynq.NewTask(TaskLowStockScan, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCacheWarmupFillsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := catalog.NewCache(client, time.Minute, nil)
	svc := newCatalog(t, cache)
	job := NewCacheWarmupJob(svc, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewCacheWarmupTask(CacheWarmupPayload{Invalidate: true, LaunchDays: []int{7}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	key, err := cache.BuildKey(context.Background(), "brands")
	require.NoError(t, err)
	require.True(t, mr.Exists(key), key)
	key, err = cache.BuildKey(context.Background(), "summary")
	require.NoError(t, err)
	require.True(t, mr.Exists(key), key)
}

func TestCacheWarmupWithoutService(t *testing.T) {
	var job *CacheWarmupJob
	require.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskCacheWarmup, nil)))
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func TestJobsHealth(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Retry: 1}}, nil).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body queueHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 3, body.Pending)
	require.Equal(t, 1, body.Retry)

	r = chi.NewRouter()
	r.Route("/jobs", NewHandler(stubInspector{err: errors.New("redis down")}, nil).MountRoutes)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTaskConstructors(t *testing.T) {
	task, err := NewCacheWarmupTask(CacheWarmupPayload{LaunchDays: []int{7, 90}})
	require.NoError(t, err)
	require.Equal(t, TaskCacheWarmup, task.Type())
	require.JSONEq(t, `{"invalidate":false,"launch_days":[7,90]}`, string(task.Payload()))

	task, err = NewLowStockScanTask(LowStockScanPayload{})
	require.NoError(t, err)
	require.Equal(t, TaskLowStockScan, task.Type())
}

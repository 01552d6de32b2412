package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/jobs"
)

func TestTaskFor(t *testing.T) {
	task, err := TaskFor(jobs.TaskCacheWarmup)
	require.NoError(t, err)
	var payload jobs.CacheWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.True(t, payload.Invalidate)

	task, err = TaskFor(jobs.TaskLowStockScan)
	require.NoError(t, err)
	require.Equal(t, jobs.TaskLowStockScan, task.Type())

	_, err = TaskFor("mail:send")
	require.Error(t, err)
}

func TestTriggerEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewJobsCLI(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })

	info, err := c.Trigger(context.Background(), jobs.TaskLowStockScan)
	require.NoError(t, err)
	require.Equal(t, jobs.QueueDefault, info.Queue)
	require.Equal(t, jobs.TaskLowStockScan, info.Type)
}

type fakeMigrator struct{ err error }

func (f fakeMigrator) Migrate(context.Context) error { return f.err }

func TestMigrate(t *testing.T) {
	require.NoError(t, Migrate(context.Background(), fakeMigrator{}))
	boom := errors.New("boom")
	require.ErrorIs(t, Migrate(context.Background(), fakeMigrator{err: boom}), boom)
	require.Error(t, Migrate(context.Background(), nil))
}

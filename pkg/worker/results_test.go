package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditops/cadence/internal/testutil"
	r "github.com/auditops/cadence/pkg/redis"
	"github.com/auditops/cadence/pkg/tasks"
)

func TestResultStoreRoundTrip(t *testing.T) {
	mr, client := testutil.NewMiniredisClient(t)
	cfg := &r.Config{Address: mr.Addr(), Prefix: "cadence"}
	store := NewResultStore(client, cfg, time.Hour)

	result := &tasks.RunResult{
		RunID:        "run-1",
		Node:         "BLR",
		Period:       "March 2024",
		Success:      true,
		TotalRecords: 42,
		ValidRecords: 40,
		Logs:         []string{"Starting BLR Cadence processing for March 2024"},
	}

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, result))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, result, got)

	// Stored under the configured key prefix with the TTL applied.
	assert.True(t, mr.Exists("cadence:run:run-1"))
	assert.Greater(t, mr.TTL("cadence:run:run-1"), time.Duration(0))
}

func TestResultStoreGetMissing(t *testing.T) {
	mr, client := testutil.NewMiniredisClient(t)
	store := NewResultStore(client, &r.Config{Address: mr.Addr(), Prefix: "cadence"}, time.Hour)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&Config{Concurrency: 2}).Validate())
	assert.ErrorIs(t, (&Config{Concurrency: 0}).Validate(), ErrInvalidConcurrency)
	assert.ErrorIs(t, (&Config{Concurrency: -1}).Validate(), ErrInvalidConcurrency)
}

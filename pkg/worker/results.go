package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	r "github.com/auditops/cadence/pkg/redis"
	"github.com/auditops/cadence/pkg/tasks"
)

// Define static errors
var (
	// ErrResultNotFound is returned when no summary exists for a run ID
	ErrResultNotFound = errors.New("run result not found")
)

// ResultStore persists run summaries in redis keyed by run ID so the API
// can answer status queries for queued runs.
type ResultStore struct {
	client *redis.Client
	cfg    *r.Config
	ttl    time.Duration
}

// NewResultStore creates a result store over an existing redis client.
func NewResultStore(client *redis.Client, cfg *r.Config, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, cfg: cfg, ttl: ttl}
}

func (s *ResultStore) key(runID string) string {
	return s.cfg.PrefixKey("run:" + runID)
}

// Save writes a run summary with the configured TTL.
func (s *ResultStore) Save(ctx context.Context, result *tasks.RunResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}

	if err := s.client.Set(ctx, s.key(result.RunID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store run result: %w", err)
	}

	return nil
}

// Get fetches the summary for a run ID.
func (s *ResultStore) Get(ctx context.Context, runID string) (*tasks.RunResult, error) {
	data, err := s.client.Get(ctx, s.key(runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, runID)
		}
		return nil, fmt.Errorf("failed to fetch run result: %w", err)
	}

	var result tasks.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
	}

	return &result, nil
}

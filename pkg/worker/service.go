package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/auditops/cadence/pkg/node"
	r "github.com/auditops/cadence/pkg/redis"
	"github.com/auditops/cadence/pkg/tasks"
)

// Service defines the public interface for the worker service
type Service interface {
	// Start initializes and starts the worker service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker service
	Stop() error

	// Results exposes the run result store shared with the API
	Results() *ResultStore
}

// service encapsulates the worker application logic
type service struct {
	config   *Config
	log      logrus.FieldLogger
	registry *node.Registry

	done chan struct{}
	wg   sync.WaitGroup

	redisCfg *r.Config
	redisOpt *redis.Options
	results  *ResultStore

	server *asynq.Server
}

// NewService creates a new worker service over the shared redis client.
func NewService(log logrus.FieldLogger, cfg *Config, registry *node.Registry, redisCfg *r.Config, redisClient *redis.Client) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &service{
		log:      log.WithField("service", "worker"),
		config:   cfg,
		registry: registry,
		done:     make(chan struct{}),
		redisCfg: redisCfg,
		redisOpt: redisClient.Options(),
		results:  NewResultStore(redisClient, redisCfg, cfg.ResultTTL),
	}, nil
}

// Start initializes and starts the worker service
func (s *service) Start(_ context.Context) error {
	executor := NewExecutor(s.log, s.registry, s.results, s.config.OutputDir)

	// One queue per node variant keeps a slow GDN backfill from starving
	// BLR/IAS runs.
	queues := make(map[string]int, len(s.registry.Names()))
	for _, name := range s.registry.Names() {
		queues[name] = 10
	}

	s.log.WithFields(logrus.Fields{
		"concurrency": s.config.Concurrency,
		"queues":      queues,
	}).Info("Starting worker service")

	srv := asynq.NewServer(r.NewAsynqRedisOptions(s.redisOpt), asynq.Config{
		Concurrency: s.config.Concurrency,
		Queues:      queues,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCadenceRun, executor.HandleRun)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runErr := srv.Run(mux); runErr != nil {
			s.log.WithError(runErr).Error("Worker server stopped with error")
		}
	}()

	s.server = srv

	s.log.Info("Worker service started successfully")

	return nil
}

// Stop gracefully shuts down the worker application
func (s *service) Stop() error {
	close(s.done)

	if s.server != nil {
		s.server.Shutdown()
	}

	s.wg.Wait()

	s.log.Info("Worker service stopped")

	return nil
}

// Results exposes the run result store shared with the API
func (s *service) Results() *ResultStore {
	return s.results
}

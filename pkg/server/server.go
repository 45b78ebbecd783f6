package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	r "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/auditops/cadence/pkg/api"
	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/observability"
	"github.com/auditops/cadence/pkg/redis"
	"github.com/auditops/cadence/pkg/scheduler"
	"github.com/auditops/cadence/pkg/tasks"
	"github.com/auditops/cadence/pkg/worker"
)

// Server represents the main application server
type Server struct {
	log    logrus.FieldLogger
	config *Config

	registry *node.Registry
	redis    *r.Client
	queue    *tasks.QueueManager

	workerService    worker.Service
	schedulerService scheduler.Service
	apiService       api.Service

	pprofServer  *http.Server
	healthServer *http.Server
}

// NewServer creates a new server instance
func NewServer(_ context.Context, log logrus.FieldLogger, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	registry := node.NewRegistry()

	redisClient, err := redis.New(config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	queue := tasks.NewQueueManager(redis.NewAsynqRedisOptions(redisClient.Options()))

	workerCfg := config.Worker
	if workerCfg == nil {
		workerCfg = &worker.Config{Concurrency: 1, OutputDir: "./output", ResultTTL: 24 * time.Hour}
	}

	workerService, err := worker.NewService(log, workerCfg, registry, config.Redis, redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker service: %w", err)
	}

	var schedulerService scheduler.Service
	if config.Scheduler != nil && config.Scheduler.Enabled {
		schedulerService, err = scheduler.NewService(log, config.Scheduler, registry, queue)
		if err != nil {
			return nil, fmt.Errorf("failed to create scheduler service: %w", err)
		}
	}

	var apiService api.Service
	if config.API != nil {
		apiService = api.NewService(config.API, registry, queue, workerService.Results(), workerCfg.OutputDir, log)
	}

	return &Server{
		config:           config,
		log:              log,
		registry:         registry,
		redis:            redisClient,
		queue:            queue,
		workerService:    workerService,
		schedulerService: schedulerService,
		apiService:       apiService,
	}, nil
}

// Start starts the server and all its components
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Log component states
	s.log.WithFields(logrus.Fields{
		"has_scheduler": s.schedulerService != nil,
		"has_api":       s.apiService != nil,
	}).Debug("Server component states")

	// Start metrics server
	g.Go(func() error {
		defer func() {
			if recovered := recover(); recovered != nil {
				s.log.WithField("panic", recovered).Error("Panic in metrics server goroutine")
			}
		}()
		observability.StartMetricsServer(ctx, s.config.MetricsAddr)
		<-ctx.Done()

		return nil
	})

	// Start pprof server if configured
	if s.config.PProfAddr != nil {
		g.Go(func() error {
			if err := s.startPProf(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-ctx.Done()

			return nil
		})
	}

	// Start health check server if configured
	if s.config.HealthCheckAddr != nil {
		g.Go(func() error {
			if err := s.startHealthCheck(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-ctx.Done()

			return nil
		})
	}

	// Start the worker, scheduler and API services
	if err := s.workerService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker service: %w", err)
	}

	if s.schedulerService != nil {
		if err := s.schedulerService.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler service: %w", err)
		}
	}

	if s.apiService != nil {
		if err := s.apiService.Start(ctx); err != nil {
			return fmt.Errorf("failed to start api service: %w", err)
		}
	}

	// Wait for shutdown signal
	g.Go(func() error {
		<-ctx.Done()

		// Use a fresh context for cleanup since the current one is canceled
		cleanupCtx := context.Background()

		return s.stop(cleanupCtx)
	})

	return g.Wait()
}

func (s *Server) stop(ctx context.Context) error {
	// Create a timeout context for cleanup
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	if s.apiService != nil {
		if err := s.apiService.Stop(); err != nil {
			s.log.WithError(err).Error("failed to stop api service")
		}
	}

	if s.schedulerService != nil {
		if err := s.schedulerService.Stop(); err != nil {
			s.log.WithError(err).Error("failed to stop scheduler service")
		}
	}

	if err := s.workerService.Stop(); err != nil {
		s.log.WithError(err).Error("failed to stop worker service")
	}

	if err := s.queue.Close(); err != nil {
		s.log.WithError(err).Error("failed to close queue manager")
	}

	// Close Redis connection
	if s.redis != nil {
		s.log.Info("Closing Redis connection...")

		if err := s.redis.Close(); err != nil {
			s.log.WithError(err).Error("failed to close redis")
		}
	}

	// Shutdown HTTP servers
	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	// Stop metrics server using observability package
	if err := observability.StopMetricsServer(cleanupCtx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}

func (s *Server) startPProf() error {
	s.log.WithField("addr", *s.config.PProfAddr).Info("Starting pprof server")

	s.pprofServer = &http.Server{
		Addr:              *s.config.PProfAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.pprofServer.ListenAndServe()
}

func (s *Server) startHealthCheck() error {
	s.log.WithField("addr", *s.config.HealthCheckAddr).Info("Starting healthcheck server")

	s.healthServer = &http.Server{
		Addr:              *s.config.HealthCheckAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	s.healthServer.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s.healthServer.ListenAndServe()
}

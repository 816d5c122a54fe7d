package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/config"
	httptransport "github.com/example/meeting-scheduler/internal/http"
	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/persistence/sqlite"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

type app struct {
	handler http.Handler
	closer  io.Closer
}

func (a *app) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// newApp wires storage, the core and the HTTP surface from cfg.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	store, err := openAuditStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	seed, err := loadSeed(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	directory, err := scheduler.NewDirectory(seed.DirectoryUsers())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed users: %w", err)
	}
	sched, err := scheduler.NewScheduler(directory, seed.SchedulerMeetings(), scheduler.WithBusinessHours(cfg.BusinessHours))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed meetings: %w", err)
	}
	logger.Info("scheduler ready",
		"users", directory.Count(),
		"meetings", sched.Count(),
		"business_hours", cfg.BusinessHours.String(),
		"audit_driver", cfg.AuditDriver,
	)

	audit := application.NewAuditService(store, nil, logger)
	userService := application.NewUserServiceWithLogger(directory, audit, logger)
	meetingService := application.NewMeetingServiceWithLogger(sched, directory, audit, logger)

	routes := httptransport.RouterConfig{
		Users:    httptransport.NewUserHandler(userService, logger),
		Meetings: httptransport.NewMeetingHandler(meetingService, logger),
		Audit:    httptransport.NewAuditHandler(audit, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	}
	if cfg.MetricsEnabled {
		routes.Metrics = promhttp.Handler()
	}
	if cfg.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
		routes.Middleware = append(routes.Middleware, httptransport.RateLimit(limiter, logger))
	}

	return &app{handler: httptransport.NewRouter(routes), closer: store}, nil
}

func openAuditStore(ctx context.Context, cfg config.Config) (persistence.AuditRepository, error) {
	switch strings.ToLower(cfg.AuditDriver) {
	case "", config.AuditDriverNone:
		return persistence.NopAuditLog{}, nil
	case config.AuditDriverMemory:
		return persistence.NewMemoryAuditLog(), nil
	case config.AuditDriverSQLite:
		store, err := sqlite.Open(cfg.AuditDSN)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate audit store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", persistence.ErrUnknownDriver, cfg.AuditDriver)
	}
}

// loadSeed reads cfg.SeedFile. Without one the server starts empty.
func loadSeed(cfg config.Config) (config.Seed, error) {
	if strings.TrimSpace(cfg.SeedFile) == "" {
		return config.Seed{}, nil
	}
	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return config.Seed{}, fmt.Errorf("load seed: %w", err)
	}
	return seed, nil
}

// Package server wires configuration, storage, the user service and the HTTP
// surface together and runs them until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpserver"
	"github.com/dmitrijs2005/gophauth/internal/server/limiter"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *httpserver.HTTPServer
}

// test seams
var (
	openPostgres = repomanager.OpenPostgres
	openRedis    = revocations.OpenRedis
)

// NewApp builds the application. Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.NewJSON(w, c.LogLevel)
	gin.SetMode(c.GinMode)

	var rev revocations.Repository
	if c.RedisURL != "" {
		r, err := openRedis(ctx, c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		rev = r
		logger.Info(ctx, "revocation list enabled")
	} else {
		logger.Warn(ctx, "REDIS_URL not set, logout will not revoke tokens")
	}

	rm, err := newRepositoryManager(ctx, c, rev)
	if err != nil {
		if rev != nil {
			_ = closeIfCloser(rev)
		}
		return nil, err
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_DSN not set, users are kept in memory")
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	us := services.NewUserService(rm, c, logger.With("module", "user_service"), m)
	srv := httpserver.NewHTTPServer(c.Addr(), logger, us, httpserver.Options{
		AllowedOrigins: c.AllowedOrigins(),
		Limiter:        limiter.NewDefault(),
		Metrics:        m,
	})

	return &App{config: c, logger: logger, repomanager: rm, server: srv}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config, rev revocations.Repository) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		return repomanager.NewMemoryRepositoryManager(rev), nil
	}

	db, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return repomanager.NewPostgresRepositoryManager(db, rev), nil
}

func closeIfCloser(v any) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		signal.Stop(sigs)
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.Addr(), "mode", app.config.GinMode)

	app.initSignalHandler(cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "server error", "error", runErr)
	}

	closeErr := app.repomanager.Close()
	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(runErr, closeErr)
}

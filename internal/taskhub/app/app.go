package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpapi "github.com/ParamD12/taskhub-app/internal/taskhub/http"
	"github.com/ParamD12/taskhub-app/internal/taskhub/loop"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote/hosted"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote/memory"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store/drivers/redis"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store/drivers/sqlite"
	"github.com/ParamD12/taskhub-app/pkg/baas"
	"github.com/ParamD12/taskhub-app/pkg/cryptox"
	"github.com/ParamD12/taskhub-app/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application encapsulates the taskhub client with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	backend remote.Backend
	hosted  *hosted.Backend // set only for the baas backend
	sealer  *cryptox.Sealer
	loop    *loop.Loop

	// Services
	notifier         *service.Notifier
	taskService      *service.TaskService
	sessionService   *service.SessionService
	refresherService *service.RefresherService

	// Background workers
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "taskhub",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initBackend(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	sealer, err := InitSealer(cfg, logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.sealer = sealer

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler is the application's HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Start launches the event loop and the background workers: the identity
// event consumer, session restoration and the stale cache refresher. It
// does not serve HTTP.
func (app *Application) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	app.loop.Start()

	if app.hosted != nil {
		app.goBackground(func() { app.hosted.Run(ctx) })
	}
	app.goBackground(func() { app.sessionService.Run(ctx) })
	app.goBackground(func() {
		view, err := app.sessionService.Restore(ctx)
		if err != nil {
			app.logger.Warn("session restore failed", "error", err)
			return
		}
		app.logger.Info("session restore finished", "status", view.Status)
	})

	app.refresherService.Start()
}

func (app *Application) goBackground(fn func()) {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		fn()
	}()
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.Start()

	app.logger.Info("taskhub starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"backend", app.cfg.Backend,
		"state_driver", app.cfg.StateDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down taskhub...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop background workers before the loop they post to
	if app.cancel != nil {
		app.refresherService.Stop()
		app.cancel()

		done := make(chan struct{})
		go func() {
			app.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			app.logger.Warn("background workers still running at shutdown deadline")
		}
	}
	app.loop.Stop()

	// Close state store
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing state store", "error", err)
		return err
	}

	app.logger.Info("taskhub stopped")
	return nil
}

// OpenStore opens the configured state store and applies its migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)

	switch cfg.StateDriver {
	case StateDriverRedis:
		db, err = redis.NewStore(ctx, redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			SessionTTL:  cfg.RedisStateTTL,
			SnapshotTTL: cfg.RedisStateTTL,
		})
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state store: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply state store migrations: %w", err)
	}
	return db, nil
}

// initStore opens the state store and applies migrations
func (app *Application) initStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("state store ready", "driver", app.cfg.StateDriver)
	return nil
}

// initBackend selects the remote backend
func (app *Application) initBackend() error {
	switch app.cfg.Backend {
	case BackendMemory:
		backend, err := memory.New(memory.Options{})
		if err != nil {
			return fmt.Errorf("failed to initialize memory backend: %w", err)
		}
		app.backend = backend
		app.logger.Warn("using in-process memory backend, accounts and tasks are lost on exit")
	default:
		client := baas.NewClient(app.cfg.BaaSURL, app.cfg.BaaSAnonKey)
		client.HTTPClient.Timeout = app.cfg.RemoteTimeout
		app.hosted = hosted.New(client)
		app.backend = app.hosted
		app.logger.Info("using hosted backend", "url", app.cfg.BaaSURL)
	}
	return nil
}

// initServices initializes the loop and the services that share it
func (app *Application) initServices() {
	opts := service.Options{
		RemoteTimeout:  app.cfg.RemoteTimeout,
		LoadingTimeout: app.cfg.LoadingTimeout,
		StaleAfter:     app.cfg.CacheStale,
		MaxRetries:     app.cfg.MaxRetries,
	}

	app.loop = loop.New(app.logger, 0)
	app.notifier = service.NewNotifier(0)
	app.taskService = service.NewTaskService(app.loop, app.db, app.notifier, app.logger, opts)
	app.sessionService = service.NewSessionService(
		app.loop,
		app.backend,
		app.db,
		app.sealer,
		app.taskService,
		app.notifier,
		app.logger,
		opts,
	)
	app.refresherService = service.NewRefresherService(app.taskService, app.logger, app.cfg.RefreshEvery)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.backend, app.logger)

	// Wire services to router
	router.SessionService = app.sessionService
	router.TaskService = app.taskService
	router.Notifier = app.notifier
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Package app wires configuration, the host, the store and the registry
// together, for the long running server as well as for one-shot commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/favorites/internal/commands"
	"github.com/MrSnakeDoc/favorites/internal/config"
	"github.com/MrSnakeDoc/favorites/internal/host"
	"github.com/MrSnakeDoc/favorites/internal/httpserver"
	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/metrics"
	"github.com/MrSnakeDoc/favorites/internal/panel"
	"github.com/MrSnakeDoc/favorites/internal/redis"
	"github.com/MrSnakeDoc/favorites/internal/registry"
	"github.com/MrSnakeDoc/favorites/internal/scheduler"
	"github.com/MrSnakeDoc/favorites/internal/store"
	redisstore "github.com/MrSnakeDoc/favorites/internal/store/redis"
	"github.com/MrSnakeDoc/favorites/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	host        *host.FS
	probe       host.Probe
	store       store.Store
	storeCheck  func(context.Context) error
	redisClient *goredis.Client
	metrics     *metrics.Metrics
	registry    *registry.Registry
	commands    *commands.Commands
	panel       *panel.Builder
}

// New opens the project tree and the store, then loads the registry.
func New(cfg *config.Config) (*App, error) {
	return NewWithLogger(cfg, logger.New(cfg.LogLevel, cfg.PrettyLog))
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	fsHost, err := host.NewFS(host.FSOptions{
		Root:     cfg.ProjectRoot,
		Identity: cfg.Identity,
		CacheTTL: cfg.IdentityCacheTTL,
		Logger:   loggerClient.Named("host"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  loggerClient,
		host:    fsHost,
		probe:   host.NewProbe(fsHost),
		metrics: metrics.New(),
	}

	if err := a.openStore(); err != nil {
		return nil, err
	}
	loggerClient.Info("favorites store ready",
		logger.String("kind", cfg.Store),
		logger.String("location", a.store.Location()))

	a.registry = registry.Open(registry.Options{
		Host:    fsHost,
		Store:   a.store,
		Logger:  loggerClient.Named("registry"),
		Metrics: a.metrics,
	})
	a.commands = commands.New(a.registry, a.probe, loggerClient.Named("commands"))
	a.panel = panel.NewBuilder(a.registry, a.probe)

	return a, nil
}

func (a *App) openStore() error {
	switch a.cfg.Store {
	case config.StoreMemory:
		a.store = store.NewMemory()
	case config.StoreRedis:
		a.logger.Infof("Connecting to Redis at %s", a.cfg.RedisAddr)
		client, err := redis.Connect(context.Background(), redis.OptionsFromConfig(a.cfg), a.logger.Named("redis"))
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		rs := redisstore.NewStore(client, a.cfg.RedisNamespace, a.cfg.RedisOpTimeout)
		a.logger.Info("using redis document store", logger.String("namespace", rs.Namespace()))
		a.redisClient = client
		a.store = rs
		a.storeCheck = rs.Ping
	default:
		a.store = store.NewFile(a.cfg.DataFile())
	}
	return nil
}

func (a *App) Registry() *registry.Registry { return a.registry }
func (a *App) Commands() *commands.Commands { return a.commands }
func (a *App) Panel() *panel.Builder        { return a.panel }
func (a *App) Probe() host.Probe            { return a.probe }
func (a *App) Logger() logger.Logger        { return a.logger }
func (a *App) Metrics() *metrics.Metrics    { return a.metrics }

// Deps returns what the HTTP handlers need.
func (a *App) Deps() deps.Deps {
	build := version.Get()
	return deps.Deps{
		Logger:       a.logger,
		StartTime:    time.Now(),
		Version:      build.Version,
		Commit:       build.Commit,
		BuildDate:    build.BuildDate,
		GoVersion:    build.GoVersion,
		AllowedCIDRS: a.cfg.AllowedCIDRS,
		TrustProxy:   a.cfg.TrustProxy,
		Registry:     a.registry,
		Commands:     a.commands,
		Panel:        a.panel,
		Probe:        a.probe,
		Metrics:      a.metrics,
		StoreCheck:   a.storeCheck,
		StoreKind:    a.cfg.Store,
	}
}

// Run serves the HTTP API and keeps the registry clean until ctx is done or
// the process receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	build := version.Get()
	a.logger.Infof("🚀 Starting favorites %s on %s", build.Version, a.cfg.ListenPort)
	a.logger.Info(build.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := scheduler.NewCleanupRunner(a.registry, a.logger.Named("cleanup"), a.metrics, a.cfg.CleanupInterval)
	runner.Start(ctx)
	a.logger.Info("cleanup runner started", logger.Duration("interval", a.cfg.CleanupInterval))

	var watcher *scheduler.Watcher
	if a.cfg.Watch {
		w, err := scheduler.NewWatcher(a.host.Root(), runner.Trigger, a.logger.Named("watcher"))
		if err != nil {
			a.logger.Warn("file watching disabled", logger.Error(err))
		} else {
			w.Start()
			watcher = w
			a.logger.Info("watching project tree", logger.String("root", a.host.Root()))
		}
	}

	server := httpserver.New(a.cfg, a.logger, a.Deps())

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			a.logger.Warn("failed to close watcher", logger.Error(err))
		}
	}
	runner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}
	return runErr
}

// Close persists the registry and releases the store connection.
func (a *App) Close() error {
	var errs []error
	if err := a.registry.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to save favorites: %w", err))
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		} else {
			a.logger.Debug("redis closed cleanly")
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

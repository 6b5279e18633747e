package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/db"
	"github.com/yungbote/consultancy-backend/internal/data/repos"
	"github.com/yungbote/consultancy-backend/internal/http"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Clients  Clients
	Metrics  *observability.Metrics
	Repos    repos.Set
	Services Services
	Server   *http.Server

	dbService       *db.Service
	metricsServer   *nethttp.Server
	shutdownTracing func(context.Context) error
	cancel          context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing := observability.InitTracing(ctx, log, cfg.TracingConfig())

	dbService, err := db.Open(cfg.DBConfig(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := dbService.AutoMigrateAll(); err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("database automigrate: %w", err)
		}
	}
	theDB := dbService.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	log.Info("Wiring repos...")
	reposet := repos.NewSet(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients.Events, metrics)
	handlerset := wireHandlers(log, theDB, clients.Redis, clients.Hub, serviceset)
	server := wireServer(log, cfg, handlerset, metrics)

	a := &App{
		Log:             log,
		Cfg:             cfg,
		DB:              theDB,
		Clients:         clients,
		Metrics:         metrics,
		Repos:           reposet,
		Services:        serviceset,
		Server:          server,
		dbService:       dbService,
		shutdownTracing: shutdownTracing,
	}
	if metrics != nil {
		mux := nethttp.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		a.metricsServer = &nethttp.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return a, nil
}

// Start launches the event forwarder and background collectors; they stop
// on Close.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.Clients.startForwarder(ctx); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	interval := a.Cfg.Metrics.ScrapeInterval
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, interval)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, interval)
	}
	return nil
}

// Run serves the API (and metrics, when enabled) until ctx is done, then
// shuts the servers down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("API server listening", "addr", a.Cfg.Addr())
		return a.Server.Run()
	})
	if a.metricsServer != nil {
		g.Go(func() error {
			a.Log.Info("metrics server listening", "addr", a.metricsServer.Addr)
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		a.Log.Info("shutting down servers")
		var errs []error
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api shutdown: %w", err))
		}
		if a.metricsServer != nil {
			if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTracing(ctx); err != nil {
			a.Log.Warn("tracing shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

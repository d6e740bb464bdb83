package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-directory/internal/api/http"
	"github.com/spec-kit/staff-directory/internal/api/http/handlers"
	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/events"
	"github.com/spec-kit/staff-directory/internal/observability"
	"github.com/spec-kit/staff-directory/internal/service"
	"github.com/spec-kit/staff-directory/internal/sheets"
	"github.com/spec-kit/staff-directory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backends := openBackends(ctx, cfg, logger)
	defer backends.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	resolver := service.NewImageResolver(cfg.Directory, service.ImageResolverDependencies{
		HTTPClient: &http.Client{Timeout: cfg.Directory.ImageCheckTimeout},
		Images:     backends.images,
		Logger:     logger.Named("images"),
	})
	source := sheets.NewClient(cfg.Sheets, logger.Named("sheets"))
	loader := service.NewDirectoryLoader(cfg.Directory, service.LoaderDependencies{
		Source:   source,
		Cache:    service.NewSnapshotCache(backends.snapshots, cfg.Directory.RefreshInterval, nil),
		Resolver: resolver,
		Logger:   logger.Named("loader"),
	})

	store := service.NewPresentationStore(cfg.Directory.Locale)
	store.Subscribe(dispatcher)

	directory := service.NewDirectoryService(cfg.Directory, service.DirectoryDependencies{
		Source:     source,
		Loader:     loader,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger.Named("directory"),
	})

	refresher, err := worker.NewRefreshWorker(directory, cfg.Directory.RefreshInterval, logger.Named("refresh"))
	if err != nil {
		logger.Fatal("failed to schedule refresh", zap.Error(err))
	}

	go func() {
		if err := directory.Reload(ctx); err != nil {
			logger.Error("initial directory load failed", zap.Error(err))
		}
	}()
	refresher.Start()

	var tokens *auth.TokenManager
	if cfg.Auth.OperatorJWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.OperatorJWTSecret, 0)
	} else {
		logger.Warn("AUTH_OPERATOR_JWT_SECRET not provided; reload endpoint is unauthenticated")
	}

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backends.pingers),
		Directory: handlers.NewDirectoryHandler(directory, store, metrics),
		View:      handlers.NewViewHandler(store),
		Images:    handlers.NewImageHandler(backends.images),
		Operator:  auth.NewOperatorMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	refresher.Stop(shutdownCtx)
	_ = app.ShutdownWithContext(shutdownCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

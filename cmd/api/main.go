package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/rcorp/claims-service/internal/api/http"
	"github.com/rcorp/claims-service/internal/api/http/handlers"
	"github.com/rcorp/claims-service/internal/auth"
	"github.com/rcorp/claims-service/internal/config"
	"github.com/rcorp/claims-service/internal/events"
	"github.com/rcorp/claims-service/internal/observability"
	"github.com/rcorp/claims-service/internal/persistence"
	"github.com/rcorp/claims-service/internal/repository"
	"github.com/rcorp/claims-service/internal/service"
	"github.com/rcorp/claims-service/internal/storage"
	"github.com/rcorp/claims-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	eventRepo := repository.NewStatusEventRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	fileStore := storage.NewDiskStore(cfg.Storage)

	authService := service.NewAuthService(*cfg, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		EventRepo:  eventRepo,
		Authorizer: auth.NewRoleAuthorizer(userRepo),
		Actors:     auth.NewDirectoryAdapter(userRepo),
		Files:      fileStore,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	presenceService := service.NewPresenceService(redis.Client, cfg.Presence)
	webhookService := service.NewWebhookService(dispatcher, logger, cfg.Webhook)
	worker.StartWebhookRelay(webhookService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Catalog:        handlers.NewCatalogHandler(),
		Presence:       handlers.NewPresenceHandler(presenceService),
		AuthMiddleware: authMiddleware,
	})

	app.Static("/files", cfg.Storage.BaseDir)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

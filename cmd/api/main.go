package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/offer-service/internal/api/http"
	"github.com/spec-kit/offer-service/internal/api/http/handlers"
	"github.com/spec-kit/offer-service/internal/audit"
	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/config"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/observability"
	"github.com/spec-kit/offer-service/internal/persistence"
	"github.com/spec-kit/offer-service/internal/repository"
	"github.com/spec-kit/offer-service/internal/service"
	"github.com/spec-kit/offer-service/internal/worker"
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

	var (
		pg    *persistence.Postgres
		repos repository.Repositories
	)
	if cfg.Postgres.DSN == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory store; data will not survive restarts")
		repos = repository.NewInMemoryStore().Repositories()
	} else {
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repository.NewPostgresRepositories(pg.PoolHandle())
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := audit.NewRecorder(repos.AuditLogs, logger, metrics)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartSubscribers(dispatcher, recorder, notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          repos.Users,
		PasswordResetRepo: repos.Resets,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	offerService := service.NewOfferService(service.OfferDependencies{
		OfferRepo:  repos.Offers,
		UserRepo:   repos.Users,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	userService := service.NewUserService(repos.Users, dispatcher, logger)
	leadService := service.NewLeadService(repos.Leads, dispatcher, logger)
	webhookService := service.NewWebhookService(service.WebhookDependencies{
		Secret:    cfg.Webhook.Secret,
		Recorder:  recorder,
		Marker:    redis,
		DedupeTTL: cfg.Webhook.DedupeTTL(),
		Logger:    logger,
	})
	logger.Info("webhook intake configured",
		zap.Bool("verification", cfg.Webhook.VerificationEnabled()),
		zap.Bool("dedupe", cfg.Redis.Addr != ""))
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.Users, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, cfg.Auth.ExposeResetToken),
		Profile:        handlers.NewProfileHandler(userService),
		Offers:         handlers.NewOffersHandler(offerService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Webhook:        handlers.NewWebhookHandler(webhookService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		WebhookRate:    cfg.Webhook.RatePerSecond,
		WebhookBurst:   cfg.Webhook.Burst,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/awards-service/internal/api/http"
	"github.com/spec-kit/awards-service/internal/api/http/handlers"
	"github.com/spec-kit/awards-service/internal/auth"
	"github.com/spec-kit/awards-service/internal/config"
	"github.com/spec-kit/awards-service/internal/events"
	"github.com/spec-kit/awards-service/internal/mail"
	"github.com/spec-kit/awards-service/internal/observability"
	"github.com/spec-kit/awards-service/internal/payment"
	"github.com/spec-kit/awards-service/internal/persistence"
	"github.com/spec-kit/awards-service/internal/repository"
	"github.com/spec-kit/awards-service/internal/service"
	"github.com/spec-kit/awards-service/internal/tracker"
	"github.com/spec-kit/awards-service/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	emailLogRepo := repository.NewEmailLogRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	paymentClient := payment.NewClient(cfg.Payment)
	trackerClient := tracker.NewClient(cfg.Tracker)
	mailClient := mail.NewClient(cfg.Mail)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	checkoutService := service.NewCheckoutService(service.CheckoutDependencies{
		Gateway:      paymentClient,
		TicketRepo:   ticketRepo,
		SettingsRepo: settingsRepo,
		Config:       cfg.Payment,
		Logger:       logger,
	})
	paymentWebhookService := service.NewPaymentWebhookService(service.PaymentWebhookDependencies{
		WebhookSecret: cfg.Payment.WebhookSecret,
		TicketRepo:    ticketRepo,
		EmailLogRepo:  emailLogRepo,
		Mailer:        mailClient,
		Deduper:       redis,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	caseSyncService := service.NewCaseSyncService(caseRepo, dispatcher, logger)
	trackerService := service.NewTrackerService(trackerClient, cfg.Tracker, logger)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Mailer:       mailClient,
		EmailLogRepo: emailLogRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Checkout:       handlers.NewCheckoutHandler(checkoutService),
		PaymentWebhook: handlers.NewPaymentWebhookHandler(paymentWebhookService),
		IssueWebhook:   handlers.NewIssueWebhookHandler(caseSyncService, cfg.Tracker.WebhookSecret, logger),
		Tracker:        handlers.NewTrackerHandler(trackerService),
		Notifications:  handlers.NewNotificationsHandler(notificationService, userRepo, emailLogRepo),
		AuthMiddleware: authMiddleware,
	})

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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/bioproximity/support-service/internal/api/http"
	"github.com/bioproximity/support-service/internal/api/http/handlers"
	"github.com/bioproximity/support-service/internal/auth"
	"github.com/bioproximity/support-service/internal/config"
	"github.com/bioproximity/support-service/internal/notify"
	"github.com/bioproximity/support-service/internal/observability"
	"github.com/bioproximity/support-service/internal/payment"
	"github.com/bioproximity/support-service/internal/persistence"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/internal/service"
	"github.com/bioproximity/support-service/internal/shipping"
	"github.com/bioproximity/support-service/internal/worker"
	"github.com/bioproximity/support-service/internal/workflow"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	assayRepo := repository.NewOrderedAssayRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	queue := notify.NewRedisQueue(redis.Client, cfg.Notification.QueueKey)
	errorNotifier := notify.NewQueueErrorNotifier(queue, logger)

	workflows := workflow.NewTicketWorkflows(workflow.Dependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		EventRepo:   eventRepo,
		UserRepo:    userRepo,
		AdminRepo:   adminRepo,
		OrderRepo:   orderRepo,
		AssayRepo:   assayRepo,
		PlanRepo:    planRepo,
		Queue:       queue,
		Logger:      logger,
		Metrics:     metrics,
	})

	payments := payment.NewService(cfg.Payment, logger, metrics)
	carrier := shipping.NewHTTPCarrier(cfg.Shipping.BaseURL, cfg.Shipping.APIToken)
	shippingService := shipping.NewService(carrier, orderRepo, cfg.Shipping, errorNotifier, logger, metrics)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		AdminRepo: adminRepo,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, adminRepo)

	mailer := notify.NewLogMailer(logger, cfg.Notification)
	notificationWorker := worker.NewNotificationWorker(queue, mailer, logger)
	go notificationWorker.Run(ctx)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userRepo),
		Tickets:        handlers.NewTicketsHandler(workflows, ticketRepo, commentRepo),
		Payments:       handlers.NewPaymentsHandler(payments, orderRepo, planRepo),
		Shipments:      handlers.NewShipmentsHandler(shippingService, orderRepo),
		Events:         handlers.NewEventsHandler(eventRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

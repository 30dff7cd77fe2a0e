package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/workforce-tasks/internal/api/http"
	"github.com/spec-kit/workforce-tasks/internal/api/http/handlers"
	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/config"
	"github.com/spec-kit/workforce-tasks/internal/events"
	"github.com/spec-kit/workforce-tasks/internal/observability"
	"github.com/spec-kit/workforce-tasks/internal/persistence"
	"github.com/spec-kit/workforce-tasks/internal/repository"
	"github.com/spec-kit/workforce-tasks/internal/service"
	"github.com/spec-kit/workforce-tasks/internal/worker"
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
	identityRepo := repository.NewIdentityRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	events.NewRedisPublisher(redis.Client, cfg.Redis.EventChannel, logger).SubscribeAll(dispatcher)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		IdentityRepo: identityRepo,
		TokenRepo:    tokenRepo,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:     taskRepo,
		IdentityRepo: identityRepo,
		Dispatcher:   dispatcher,
	})
	workforceService := service.NewWorkforceService(service.WorkforceDependencies{
		IdentityRepo: identityRepo,
		Dispatcher:   dispatcher,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), tokenRepo, identityRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Employees:      handlers.NewEmployeesHandler(workforceService),
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

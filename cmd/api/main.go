package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/token-service/internal/api/http"
	"github.com/spec-kit/token-service/internal/api/http/handlers"
	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/events"
	"github.com/spec-kit/token-service/internal/observability"
	"github.com/spec-kit/token-service/internal/persistence"
	"github.com/spec-kit/token-service/internal/ratelimit"
	"github.com/spec-kit/token-service/internal/repository"
	"github.com/spec-kit/token-service/internal/service"
	"github.com/spec-kit/token-service/internal/worker"
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

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	limiter := ratelimit.NewLoginLimiter(redis.Client, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow(), logger)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    limiter,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logger.Fatal("invalid signing configuration", zap.Error(err))
	}

	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	gate := auth.NewGate(authService.Codec(), userRepo)
	authMiddleware := auth.NewMiddleware(gate)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tokens:         handlers.NewTokensHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Protected:      handlers.NewProtectedHandler(),
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

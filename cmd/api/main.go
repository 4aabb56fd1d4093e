package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Tornike222/Loan-Api/internal/api/http"
	"github.com/Tornike222/Loan-Api/internal/api/http/handlers"
	"github.com/Tornike222/Loan-Api/internal/auth"
	"github.com/Tornike222/Loan-Api/internal/cache"
	"github.com/Tornike222/Loan-Api/internal/config"
	"github.com/Tornike222/Loan-Api/internal/events"
	"github.com/Tornike222/Loan-Api/internal/observability"
	"github.com/Tornike222/Loan-Api/internal/persistence"
	"github.com/Tornike222/Loan-Api/internal/repository"
	"github.com/Tornike222/Loan-Api/internal/service"
	"github.com/Tornike222/Loan-Api/internal/worker"
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
	loanRepo := repository.NewLoanRepository(pool)
	loanCache := cache.NewLoanCache(redis.Client, cfg.Cache.LoanListTTL())

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authService := service.NewAuthService(*cfg, userRepo, dispatcher, logger)
	loanService := service.NewLoanService(service.LoanDependencies{
		UserRepo:   userRepo,
		LoanRepo:   loanRepo,
		LoanCache:  loanCache,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	moderationService := service.NewModerationService(userRepo, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Loans:          handlers.NewLoansHandler(loanService),
		Accountant:     handlers.NewAccountantHandler(loanService, moderationService),
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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/gym-entry/internal/api/http"
	"github.com/spec-kit/gym-entry/internal/api/http/handlers"
	"github.com/spec-kit/gym-entry/internal/auth"
	"github.com/spec-kit/gym-entry/internal/config"
	"github.com/spec-kit/gym-entry/internal/entrytoken"
	"github.com/spec-kit/gym-entry/internal/events"
	"github.com/spec-kit/gym-entry/internal/observability"
	"github.com/spec-kit/gym-entry/internal/persistence"
	"github.com/spec-kit/gym-entry/internal/policy"
	"github.com/spec-kit/gym-entry/internal/repository"
	"github.com/spec-kit/gym-entry/internal/resilience"
	"github.com/spec-kit/gym-entry/internal/service"
	"github.com/spec-kit/gym-entry/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required to serve entry requests")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	storeBreaker := resilience.NewBreaker("postgres", cfg.Breaker, logger)

	breakers := map[string]handlers.BreakerState{"postgres": storeBreaker}
	var (
		guard       entrytoken.ReplayGuard
		redisPinger handlers.Pinger
	)
	switch cfg.Entry.ReplayBackend {
	case config.ReplayBackendRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, true, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		redisPinger = rdb
		redisBreaker := resilience.NewBreaker("redis", cfg.Breaker, logger)
		breakers["redis"] = redisBreaker
		guard = resilience.ReplayGuard(
			entrytoken.NewRedisReplayGuard(rdb.Client, cfg.Entry.ReplayKeyPrefix, nil),
			redisBreaker,
		)
	default:
		logger.Warn("replay guard held in memory; run a single scanner instance")
		guard = entrytoken.NewMemoryReplayGuard(nil)
	}

	signer, err := entrytoken.NewSigner([]byte(cfg.Entry.TokenSecret))
	if err != nil {
		logger.Fatal("failed to init entry token signer", zap.Error(err))
	}
	tokens, err := entrytoken.NewService(signer, guard, cfg.Entry.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init entry token service", zap.Error(err))
	}

	pool := pg.PoolHandle()
	subjectRepo := resilience.SubjectRepository(repository.NewSubjectRepository(pool), storeBreaker)
	entryLogRepo := repository.NewEntryLogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	var publisher events.Publisher
	if cfg.Events.AMQPURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.Events.AMQPURL, logger)
		if err != nil {
			logger.Warn("entry events will not be published", zap.Error(err))
		} else {
			defer rabbit.Close() //nolint:errcheck
			publisher = rabbit
		}
	}
	worker.StartEntryNotifier(service.NewEntryNotifier(dispatcher, publisher, logger))

	entryService := service.NewEntryService(service.EntryDependencies{
		Tokens:       tokens,
		Engine:       policy.NewEngine(nil),
		SubjectRepo:  subjectRepo,
		EntryLogRepo: entryLogRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger).WithBreakers(breakers),
		Entry:          handlers.NewEntryHandler(entryService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager),
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

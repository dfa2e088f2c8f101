package main

import (
	"context"
	"log"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/gotodos/backend/api/handler"
	"github.com/gotodos/backend/internal/config"
	"github.com/gotodos/backend/internal/infrastructure/monitor"
	pgInfra "github.com/gotodos/backend/internal/infrastructure/postgres"
	redisInfra "github.com/gotodos/backend/internal/infrastructure/redis"
	"github.com/gotodos/backend/internal/lifecycle"
	"github.com/gotodos/backend/internal/middleware"
	"github.com/gotodos/backend/internal/ratelimit"
	"github.com/gotodos/backend/internal/router"
	"github.com/gotodos/backend/internal/token"
	"github.com/gotodos/backend/pkg/httpcontext"
	"github.com/gotodos/backend/pkg/logger"
	"github.com/gotodos/backend/repository/postgres"
	redisRepo "github.com/gotodos/backend/repository/redis"
	authUC "github.com/gotodos/backend/usecase/auth"
	todoUC "github.com/gotodos/backend/usecase/todo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	throttleStats, err := ratelimit.OpenStats(cfg.Throttle.StatsPath, "throttle_stats")
	if err != nil {
		zapLogger.Fatal("failed to open throttle stats store", zap.Error(err))
	}
	manager.Register("throttle_stats", func(ctx context.Context) error {
		return throttleStats.Close()
	})

	mon := monitor.New(pool, redisClient, throttleStats, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	todoRepo := postgres.NewTodoRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.TTL)

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authUseCase := authUC.New(userRepo, sessionRepo, tokens, zapLogger)
	todoUseCase := todoUC.New(todoRepo, zapLogger)

	userLimiter, ipLimiter := buildLimiters(appCtx, cfg, redisClient, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Todo:   apiHandler.NewTodoHandler(todoUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, router.Middleware{
		Auth: middleware.Auth(authUseCase, zapLogger),
		RateLimit: middleware.RateLimit(middleware.RateLimitOptions{
			Users:  userLimiter,
			IPs:    ipLimiter,
			KeyFn:  middleware.TokenKeyFunc(tokens),
			Stats:  throttleStats,
			Logger: zapLogger,
		}),
	})

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func buildLimiters(ctx context.Context, cfg *config.Config, redisClient *redislib.Client, zapLogger *zap.Logger) (ratelimit.Limiter, ratelimit.Limiter) {
	if cfg.Throttle.Store == "redis" {
		return ratelimit.NewRedisStore(redisClient, cfg.Throttle.UserPerMinute, "throttle:user", zapLogger),
			ratelimit.NewRedisStore(redisClient, cfg.Throttle.IPPerMinute, "throttle:ip", zapLogger)
	}

	users := ratelimit.NewMemoryStore(cfg.Throttle.UserPerMinute)
	ips := ratelimit.NewMemoryStore(cfg.Throttle.IPPerMinute)
	users.StartJanitor(ctx)
	ips.StartJanitor(ctx)
	return users, ips
}

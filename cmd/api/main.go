package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpadp "loan-ledger-service/internal/adapter/http"
	"loan-ledger-service/internal/adapter/middleware"
	repo "loan-ledger-service/internal/adapter/repository/mysql"
	"loan-ledger-service/internal/config"
	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/infrastructure/cache"
	"loan-ledger-service/internal/infrastructure/db"
	"loan-ledger-service/internal/infrastructure/observability"
	decisionuc "loan-ledger-service/internal/usecase/decision"
	ledgeruc "loan-ledger-service/internal/usecase/ledger"
	loanuc "loan-ledger-service/internal/usecase/loan"
	"loan-ledger-service/pkg/keylock"
)

func main() {
	cfg := config.Load()
	observability.SetupLogger(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
	} else {
		log.Warn().Msg("REDIS_ADDR not set, idempotency disabled")
	}

	metrics := observability.NewMetrics()
	locks := keylock.New()
	tx := repo.NewGormUoW(gdb)
	policy := loan.Policy{
		PenaltyFine:  cfg.PenaltyFine,
		PenaltyDays:  cfg.PenaltyDays,
		RefundAmount: cfg.RefundAmount,
	}

	loanUC := loanuc.NewUsecase(repo.NewLoanRepository(gdb), metrics)
	decisionUC := decisionuc.NewUsecase(tx, locks, metrics)
	ledgerUC := ledgeruc.NewUsecase(tx, locks, policy, metrics)

	health := httpadp.NewHandler().WithPinger("db", sqlDB.PingContext)
	if rdb != nil {
		health.WithPinger("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			"Ax-Request-Id", "Ax-Request-At", middleware.HeaderActorID,
		},
		MaxAge: 86400,
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(middleware.RequestLogger(metrics))
	e.Use(echomiddleware.Recover())

	limiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer limiter.Stop()

	mutating := []echo.MiddlewareFunc{middleware.RateLimitMiddleware(limiter)}
	if rdb != nil {
		store := cache.NewIdempotencyStore(rdb, middleware.ProvisionalLockTTL)
		mutating = append(mutating, middleware.IdempotencyMiddleware(store, cfg.IdempotencyTTL()))
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	httpadp.Register(e, httpadp.Handlers{
		Health:    health,
		Loans:     httpadp.NewLoanHandler(loanUC),
		Decisions: httpadp.NewDecisionHandler(decisionUC),
		Ledger:    httpadp.NewLedgerHandler(ledgerUC),
	}, mutating...)

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("db", cfg.DBDriver).Msg("starting server")
		if err := e.Start(":" + cfg.AppPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

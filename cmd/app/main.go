package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"isp-selfcare/internal/config"
	pg "isp-selfcare/internal/infra/db/postgres"
	"isp-selfcare/internal/infra/gateway"
	"isp-selfcare/internal/infra/logging"
	"isp-selfcare/internal/infra/metrics"
	red "isp-selfcare/internal/infra/redis"
	"isp-selfcare/internal/infra/sched"
	"isp-selfcare/internal/infra/web"
	"isp-selfcare/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)

	// ---- Gateway ----
	paystack := gateway.NewPaystackClient(cfg.Gateway)
	logger.Info().
		Str("gateway", paystack.Name()).
		Str("currency", cfg.Gateway.Currency).
		Str("secret_key", logging.Redact(cfg.Gateway.SecretKey, cfg.Runtime.Dev)).
		Msg("payment gateway configured")

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(planRepo)
	subUC := usecase.NewSubscriptionUseCase(subRepo, logger)
	paymentUC := usecase.NewPaymentUseCase(payRepo, subRepo, planRepo, userRepo, paystack, tm, cfg.Gateway.CallbackURL, cfg.Gateway.Currency, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, subRepo, payRepo)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret, 30*time.Minute)
	srv := web.NewServer(planUC, paymentUC, subUC, statsUC, auth, locker, cfg.Server.AdminAPIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Background workers ----
	expiry := sched.NewExpiryWorker(cfg.Worker.ExpiryInterval, subUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	reconciler := sched.NewPaymentReconciler(cfg.Worker.ReconcileInterval, cfg.Worker.ReconcileStaleAfter, payRepo, paymentUC, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	if err := server.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

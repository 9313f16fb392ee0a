package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/coronelbarros/storefront/api/controllers"
	"github.com/coronelbarros/storefront/api/routes"
	"github.com/coronelbarros/storefront/internal/auth"
	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/internal/checkout"
	"github.com/coronelbarros/storefront/internal/content"
	"github.com/coronelbarros/storefront/internal/cron"
	"github.com/coronelbarros/storefront/internal/identity"
	"github.com/coronelbarros/storefront/internal/promotions"
	"github.com/coronelbarros/storefront/internal/users"
	"github.com/coronelbarros/storefront/pkg/auth/session"
	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/db"
	"github.com/coronelbarros/storefront/pkg/env"
	"github.com/coronelbarros/storefront/pkg/instance"
	"github.com/coronelbarros/storefront/pkg/logger"
	"github.com/coronelbarros/storefront/pkg/metrics"
	"github.com/coronelbarros/storefront/pkg/migrate"
	"github.com/coronelbarros/storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var kv redis.Store
	if cfg.FeatureFlags.UseRedis {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		kv = client
	} else {
		logg.Warn(ctx, "redis disabled; refresh sessions and rate limits are process-local")
		kv = redis.NewMemoryStore(nil)
	}
	defer func() {
		err = multierr.Append(err, kv.Close())
	}()

	sessionManager, err := session.NewManager(kv, cfg.JWT)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	contentService, err := content.NewService(content.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	cartStore := cart.NewStore(nil)
	cartService, err := cart.NewService(cartStore, catalogService, checkoutMetrics)
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:    cartService,
		Composer: checkout.NewComposer(cfg.Store),
		Launcher: checkout.ClientLauncher{},
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	promotionService, err := promotions.NewService(promotions.NewRepository(dbClient.DB()), nil)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	userService, err := users.NewService(userRepo, cfg.Password, logg)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	if cfg.Admin.Enabled() {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
			return err
		}
	}

	sweepJob, err := cron.NewCartSweepJob(cron.CartSweepJobParams{
		Logger:  logg,
		Carts:   cartStore,
		Metrics: checkoutMetrics,
		IdleTTL: cfg.Cart.IdleTTL,
	})
	if err != nil {
		return err
	}
	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{sweepJob},
		Metrics:  metrics.NewCronJobMetrics(registry),
		Interval: cfg.Cart.SweepInterval,
	})
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Sessions:    sessionManager,
			RateStore:   kv,
			Gate:        identity.DefaultGate(),
			Catalog:     catalogService,
			Content:     contentService,
			Carts:       cartService,
			Checkout:    checkoutService,
			Auth:        authService,
			Users:       userService,
			Promotions:  promotionService,
			Pingers:     map[string]controllers.Pinger{"db": dbClient, "redis": kv},
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
			Metrics:     metrics.Handler(registry),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cronCtx, stopCron := context.WithCancel(ctx)
	defer stopCron()
	cronDone := make(chan error, 1)
	go func() {
		cronDone <- cronService.Run(cronCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	case runErr = <-serveErr:
	}

	stopCron()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	runErr = multierr.Append(runErr, server.Shutdown(shutdownCtx))

	if cronErr := <-cronDone; cronErr != nil && !errors.Is(cronErr, context.Canceled) {
		runErr = multierr.Append(runErr, cronErr)
	}
	return runErr
}

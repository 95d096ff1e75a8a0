package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/shopcore/inventory/api/handler"
	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/internal/config"
	"github.com/shopcore/inventory/internal/infrastructure/journal"
	"github.com/shopcore/inventory/internal/infrastructure/monitor"
	pgInfra "github.com/shopcore/inventory/internal/infrastructure/postgres"
	redisInfra "github.com/shopcore/inventory/internal/infrastructure/redis"
	"github.com/shopcore/inventory/internal/middleware"
	"github.com/shopcore/inventory/internal/router"
	"github.com/shopcore/inventory/internal/services"
	"github.com/shopcore/inventory/internal/services/lifecycle"
	"github.com/shopcore/inventory/pkg/httpcontext"
	"github.com/shopcore/inventory/pkg/logger"
	pgRepo "github.com/shopcore/inventory/repository/postgres"
	redisRepo "github.com/shopcore/inventory/repository/redis"
	promotionUC "github.com/shopcore/inventory/usecase/promotion"
	stockUC "github.com/shopcore/inventory/usecase/stock"
	thresholdsUC "github.com/shopcore/inventory/usecase/thresholds"
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
		zapLogger.Fatal("catalog store connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	alertJournal, err := journal.Open(cfg.Journal.Path, "alert_journal")
	if err != nil {
		zapLogger.Fatal("failed to open alert journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return alertJournal.Close()
	})

	mon := monitor.New(pool, redisClient, alertJournal, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	productRepo := pgRepo.NewProductRepository(pool)
	thresholdRepo := redisRepo.NewThresholdRepository(redisClient, domain.Thresholds{
		Low:      cfg.Thresholds.DefaultLow,
		Critical: cfg.Thresholds.DefaultCritical,
	})

	promotionManager := promotionUC.NewManager(productRepo, zapLogger)
	thresholdService := thresholdsUC.New(thresholdRepo, productRepo, zapLogger)

	aggregator := stockUC.NewAggregator(
		productRepo,
		thresholdRepo,
		zapLogger,
		cfg.Alerts.PollInterval,
		cfg.Alerts.CountPollInterval,
	)

	throttler := services.NewThrottler(
		services.NewLogDeliverer(zapLogger),
		services.ThrottlerConfig{
			MinSpacing: cfg.Alerts.ThrottleWindow,
			QueueCap:   cfg.Alerts.QueueCap,
		},
		zapLogger,
	)
	manager.Register("throttler", func(ctx context.Context) error {
		throttler.Close()
		return nil
	})

	bridge := services.NewAlertBridge(
		throttler,
		alertJournal,
		services.ParseVerbosity(cfg.Alerts.Verbosity),
		zapLogger,
	)
	aggregator.Subscribe(bridge.OnSnapshot)

	aggregator.Start()
	manager.Register("aggregator", func(ctx context.Context) error {
		aggregator.Stop(ctx)
		return nil
	})

	sweeper := services.NewSweeper(promotionManager, cfg.Sweep.Interval, zapLogger)
	sweeper.Start()
	manager.Register("sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	janitor := services.NewJanitor(alertJournal, time.Duration(cfg.Journal.RetentionHours)*time.Hour, zapLogger)
	janitor.Start()
	manager.Register("janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Promotion:  apiHandler.NewPromotionHandler(promotionManager, ctxAdapter, zapLogger),
		Alerts:     apiHandler.NewAlertsHandler(aggregator, alertJournal, ctxAdapter, zapLogger),
		Thresholds: apiHandler.NewThresholdsHandler(thresholdService, ctxAdapter, zapLogger),
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	adminAuth := middleware.AdminAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, adminAuth)

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

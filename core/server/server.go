package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookinglink/core/cache"
	"bookinglink/core/config"
	"bookinglink/core/constants"
	"bookinglink/core/crypto"
	"bookinglink/core/database"
	"bookinglink/core/logger"
	"bookinglink/core/worker"
	"bookinglink/modules/auth"
	"bookinglink/modules/booking"
	"bookinglink/modules/calendar"
	"bookinglink/modules/calendar/provider"
	notifrepository "bookinglink/modules/notification/repository"
	notifservice "bookinglink/modules/notification/service"
	"bookinglink/modules/owner"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run wires the whole service together and blocks until shutdown.
func Run() error {
	logger.Init(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageTimeout)
	if err := db.EnsureSchema(ctx); err != nil {
		cancel()
		return err
	}
	cancel()

	cipher, err := crypto.NewCipher(cfg.EncryptKey)
	if err != nil {
		return fmt.Errorf("failed to init cipher: %w", err)
	}

	prov, err := provider.New(cfg.Provider)
	if err != nil {
		return err
	}
	connector, err := provider.NewConnector(cfg.Provider)
	if err != nil {
		return err
	}

	// Redis is optional: without it the rate limiter runs in process and
	// booking notifications are skipped.
	var redisCache cache.Cache
	var workerClient *worker.Client
	var workerServer *worker.Server
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis)
		if err != nil {
			return err
		}
		workerClient = worker.NewClient(cfg.Redis)
		workerServer = worker.NewServer(cfg.Redis)
	} else {
		logger.Warn("Server:Run:NoRedis", "detail", "rate limiting is per instance, notifications disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.Static("/", "public")
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	calendar.Init(e, db, prov, cipher)
	auth.Init(e, db, connector, cipher)
	booking.Init(e, db, prov, cipher, redisCache, workerClient)
	owner.Init(e, db)

	if workerServer != nil {
		notificationRepo := notifrepository.NewNotificationRepository(db)
		notificationSvc := notifservice.NewNotificationService(notificationRepo)
		workerServer.HandleFunc(worker.TypeBookingConfirmed, notificationSvc.HandleBookingConfirmed)
		if err := workerServer.Start(); err != nil {
			return fmt.Errorf("failed to start worker: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:StartFailed", "error", err)
		}
	}()
	logger.Info("Server:Run:Started", "addr", addr, "provider", cfg.Provider)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server:Run:ShuttingDown")

	if workerServer != nil {
		workerServer.Shutdown()
	}
	if workerClient != nil {
		_ = workerClient.Close()
	}
	if redisCache != nil {
		_ = redisCache.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

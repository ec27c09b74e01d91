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
	"github.com/sirupsen/logrus"

	"tablebook/internal/auth"
	"tablebook/internal/cache"
	"tablebook/internal/config"
	"tablebook/internal/db"
	"tablebook/internal/handler"
	"tablebook/internal/logging"
	"tablebook/internal/metrics"
	"tablebook/internal/repository"
	"tablebook/internal/repository/memory"
	"tablebook/internal/router"
	"tablebook/internal/scheduler"
	"tablebook/internal/seed"
	"tablebook/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Tablebook API
// @version 1.0
// @description Restaurant reservation API with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("store init")
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedCatalog {
		restaurants, err := seed.DefaultCatalog()
		if err != nil {
			log.WithError(err).Fatal("load seed catalog")
		}
		if _, err := seed.Catalog(ctx, store.Restaurants, restaurants, log); err != nil {
			log.WithError(err).Fatal("seed catalog")
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL)
	var tokenStore auth.TokenStoreInterface
	if cacheClient.Enabled() {
		tokenStore = auth.NewTokenStore(cacheClient)
	} else {
		log.Warn("REDIS_ADDR not set, keeping tokens in process memory")
		tokenStore = auth.NewMemoryTokenStore()
	}

	m := metrics.New()
	loc := cfg.Location()

	// Initialize services
	validator := service.NewReservationValidator(loc, time.Now)
	authService := service.NewAuthService(store.Users, jwtService, tokenStore, log.WithField("component", "auth"))
	catalogService := service.NewCatalogService(store.Restaurants, cacheClient)
	reservationService := service.NewReservationService(
		store.Reservations,
		store.Restaurants,
		validator,
		log.WithField("component", "reservations"),
		m,
	)

	sweeper, err := scheduler.New(cfg.CompletionSchedule, loc, reservationService, log.WithField("component", "scheduler"), m)
	if err != nil {
		log.WithError(err).Fatal("scheduler init")
	}
	sweeper.Start()

	// Register routes
	e := echo.New()
	router.Register(e, cfg, log, m, auth.Middleware(jwtService, tokenStore), router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Restaurants:  handler.NewRestaurantHandler(catalogService),
		Reservations: handler.NewReservationHandler(reservationService),
		Health:       handler.NewHealthHandler(store.Ping, log),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithFields(logrus.Fields{"addr": addr, "store": cfg.StoreBackend}).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	sweeper.Stop(shutdownCtx)
}

// openStore builds the configured storage backend and its close function.
func openStore(cfg *config.Config, log *logrus.Logger) (*repository.Store, func(), error) {
	if cfg.StoreBackend == config.StoreMemory {
		log.Warn("STORE_BACKEND=memory, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Logger:       log,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repository.NewGormStore(gormDB), closeFn, nil
}

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

	"github.com/agroconnect/agroconnect-backend/api"
	"github.com/agroconnect/agroconnect-backend/api/middleware"
	"github.com/agroconnect/agroconnect-backend/api/routes"
	"github.com/agroconnect/agroconnect-backend/internal/auth"
	"github.com/agroconnect/agroconnect-backend/internal/calendar"
	"github.com/agroconnect/agroconnect-backend/internal/cart"
	"github.com/agroconnect/agroconnect-backend/internal/chat"
	"github.com/agroconnect/agroconnect-backend/internal/cron"
	"github.com/agroconnect/agroconnect-backend/internal/equipment"
	"github.com/agroconnect/agroconnect-backend/internal/presence"
	"github.com/agroconnect/agroconnect-backend/internal/products"
	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/auth/session"
	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db"
	"github.com/agroconnect/agroconnect-backend/pkg/env"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/metrics"
	"github.com/agroconnect/agroconnect-backend/pkg/migrate"
	"github.com/agroconnect/agroconnect-backend/pkg/realtime"
	"github.com/agroconnect/agroconnect-backend/pkg/redis"
)

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
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	realtimeMetrics := metrics.NewRealtimeMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(products.ServiceParams{
		Repo:    productRepo,
		Users:   userRepo,
		Cache:   redisClient,
		Catalog: cfg.Catalog,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), productRepo)
	if err != nil {
		return err
	}

	equipmentRepo := equipment.NewRepository(dbClient.DB())
	if cfg.FeatureFlags.SeedEquipment {
		seedLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("equipment_seed"), time.Minute)
		if err != nil {
			return err
		}
		if _, err := equipment.NewSeeder(equipmentRepo, seedLock, logg).Seed(ctx); err != nil {
			return err
		}
	}
	equipmentService, err := equipment.NewService(equipmentRepo, userRepo)
	if err != nil {
		return err
	}

	calendarService, err := calendar.NewService(calendar.NewRepository(dbClient.DB()), time.Now)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logg, realtimeMetrics)
	go hub.Run(ctx)

	var publisher realtime.Publisher = hub
	if cfg.Realtime.RelayRedis {
		relay, err := realtime.NewRelay(redisClient, hub, logg)
		if err != nil {
			return err
		}
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "realtime relay stopped", err)
			}
		}()
		publisher = relay
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo:      chat.NewRepository(dbClient.DB()),
		Config:    cfg.Chat,
		Publisher: publisher,
		Metrics:   realtimeMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	presenceStore, err := presence.NewRedisStore(redisClient)
	if err != nil {
		return err
	}
	tracker, err := presence.NewTracker(presence.TrackerParams{
		Store:   presenceStore,
		Window:  cfg.Presence.Window,
		Logger:  logg,
		Metrics: realtimeMetrics,
	})
	if err != nil {
		return err
	}

	rateLimiter := middleware.NewRateLimiter(cfg.APIRateLimit, logg)
	go rateLimiter.Run(ctx)

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		DB:          dbClient,
		Redis:       redisClient,
		Sessions:    sessionManager,
		Auth:        authService,
		Register:    registerService,
		Users:       userRepo,
		Products:    productService,
		Cart:        cartService,
		Equipment:   equipmentService,
		Calendar:    calendarService,
		Chat:        chatService,
		Presence:    tracker,
		Hub:         hub,
		Publisher:   publisher,
		RateLimiter: rateLimiter,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
	})

	server := api.NewServer(cfg, handler)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": env.Instance(),
	})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

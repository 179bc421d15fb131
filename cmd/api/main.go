package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/c-library/catalog-admin/docs"
	"github.com/c-library/catalog-admin/internal/api"
	"github.com/c-library/catalog-admin/internal/api/handler"
	"github.com/c-library/catalog-admin/internal/core/ports"
	"github.com/c-library/catalog-admin/internal/core/service"
	"github.com/c-library/catalog-admin/internal/infrastructure/catalog"
	"github.com/c-library/catalog-admin/internal/infrastructure/config"
	mongodb "github.com/c-library/catalog-admin/internal/infrastructure/db/mongo"
	redisdb "github.com/c-library/catalog-admin/internal/infrastructure/db/redis"
	"github.com/c-library/catalog-admin/internal/infrastructure/memory"
	"github.com/c-library/catalog-admin/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// @title Catalog Admin API
// @version 1.0
// @description Administration API for the thesis catalog: users, roles and permissions, session state, and a relay to the public catalog service.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env is optional; environment variables may be set directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "catalog-admin",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependencies ---
	var (
		mongoDB     *mongo.Database
		redisClient *redis.Client
		userRepo    ports.UserRepository
		denylist    ports.TokenDenylist
		statsCache  handler.StatsCache
	)

	switch cfg.Store {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("mongo index setup failed")
		}
		mongoDB = db
		userRepo = mongodb.NewUserRepository(db, cfg.CurrentUsername)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo user store")
	default:
		userRepo = memory.NewSeededRepository(0, cfg.SeedPassword)
		log.Info().Msg("using seeded in-memory user store")
	}

	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer func() { _ = client.Close() }()

		redisClient = client
		denylist = redisdb.NewDenylist(client)
		statsCache = redisdb.NewStatsCache(client, time.Duration(cfg.Catalog.StatsCacheTTL)*time.Second)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		denylist = memory.NewDenylist()
		log.Info().Msg("redis not configured, using in-process token denylist")
	}

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
	}, log)

	authService := service.NewAuthService(userRepo, denylist, cfg.JWTSecret, 24*time.Hour, log)
	userService := service.NewUserService(userRepo, log)

	session := service.NewSession(userRepo, log)
	session.Refetch(ctx)

	e := api.NewRouter(api.RouterConfig{
		Logger:      log,
		JWTSecret:   cfg.JWTSecret,
		AuthService: authService,
		UserService: userService,
		Catalog:     catalogClient,
		Session:     session,
		Denylist:    denylist,
		StatsCache:  statsCache,
		MongoDB:     mongoDB,
		Redis:       redisClient,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting catalog admin API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

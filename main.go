package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prompthub/prompthub/handlers"
	"github.com/prompthub/prompthub/internal/cache"
	"github.com/prompthub/prompthub/internal/config"
	"github.com/prompthub/prompthub/internal/database"
	"github.com/prompthub/prompthub/internal/events"
	"github.com/prompthub/prompthub/internal/export"
	"github.com/prompthub/prompthub/internal/oidc"
	"github.com/prompthub/prompthub/internal/prompts/handler"
	"github.com/prompthub/prompthub/internal/prompts/service"
	"github.com/prompthub/prompthub/internal/storage"
	"github.com/prompthub/prompthub/internal/users"
	"github.com/prompthub/prompthub/pkg/logger"
	"github.com/prompthub/prompthub/pkg/metrics"
	"github.com/prompthub/prompthub/pkg/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.InitFile(cfg.Log.Level, logger.FileConfig{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	})
	defer logger.Sync()
	logger.Infof("config loaded: env=%s keycloak=%v mongo=%v redis=%v nats=%v minio=%v",
		cfg.Server.Environment, cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "",
		cfg.NATS.URL != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	checks := map[string]handlers.Check{}

	// Redis backs the feed cache and the shared rate limiter
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v; continuing without cache", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
			logger.Infof("connected to Redis at %s", addr)
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var opts []service.Option
	if rdb != nil {
		opts = append(opts, service.WithCache(cache.NewFeedCache(rdb, "feed:", cfg.Cache.FeedTTL)))
	}

	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Warnf("failed to connect to NATS (%s): %v; events disabled", cfg.NATS.URL, err)
		} else {
			defer func() { _ = nc.Drain() }()
			opts = append(opts, service.WithPublisher(events.NewNATSPublisher(nc, cfg.NATS.Subject)))
			checks["nats"] = func(context.Context) error {
				if s := nc.Status(); s != nats.CONNECTED {
					return fmt.Errorf("nats status %s", s)
				}
				return nil
			}
		}
	}

	// MongoDB when configured; the in-memory stores otherwise
	var (
		promptSvc service.Service
		userRepo  users.UserRepository
	)
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB.Database)
		promptSvc = service.NewMongoService(db.Collection("prompts"), opts...)
		userRepo = users.NewMongoUserRepository(db.Collection("users"))
		checks["store"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warn("MONGODB_URI not set; using in-memory stores (data is lost on restart)")
		promptSvc = service.NewMemoryService(opts...)
		userRepo = users.NewMemoryRepo()
	}
	userSvc := users.NewService(userRepo)

	var exporter handlers.Exporter
	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Infof("MinIO not configured; prompt export disabled")
	case err != nil:
		logger.Warnf("failed to initialize MinIO storage: %v; prompt export disabled", err)
	default:
		exporter = export.NewService(store, promptSvc, cfg.MinIO.URLExpiry)
		checks["storage"] = store.Ping
	}

	verifier := newVerifier(ctx, cfg.Keycloak)
	if cfg.Keycloak.URL != "" {
		checks["oidc"] = func(context.Context) error {
			if verifier == nil {
				return errors.New("verifier unavailable")
			}
			return nil
		}
	}

	handler.RegisterPromptRoutes(r, promptSvc)
	handlers.NewUserHandler(userSvc, exporter).Register(r)
	handlers.RegisterMe(r, verifier, userSvc)
	handlers.RegisterSwagger(r)
	handlers.RegisterHealth(r, checks)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("prompthub API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newVerifier prefers the Keycloak realm issuer. The insecure verifier is
// only used on explicit opt-in when no real verifier could be built.
func newVerifier(ctx context.Context, kc config.KeycloakConfig) middleware.Verifier {
	if kc.URL != "" && kc.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.Issuer(kc.URL, kc.Realm), kc.ClientID)
		if err == nil {
			return ver
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if kc.AllowInsecureToken {
		logger.Warn("enabling insecure OIDC verifier: token signatures are NOT checked")
		return oidc.NewInsecureVerifier()
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

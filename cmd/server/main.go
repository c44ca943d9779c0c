package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/blogfusion/aigen"
	"github.com/dmitrymomot/blogfusion/auth"
	"github.com/dmitrymomot/blogfusion/billing"
	"github.com/dmitrymomot/blogfusion/blog"
	"github.com/dmitrymomot/blogfusion/pkg/config"
	"github.com/dmitrymomot/blogfusion/pkg/httpserver"
	"github.com/dmitrymomot/blogfusion/pkg/logger"
	"github.com/dmitrymomot/blogfusion/pkg/mongo"
	"github.com/dmitrymomot/blogfusion/pkg/ratelimit"
	"github.com/dmitrymomot/blogfusion/pkg/redis"
	"github.com/dmitrymomot/blogfusion/pkg/requestid"
	"github.com/dmitrymomot/blogfusion/pkg/storage"
)

// aiLimitConfig bounds how often a single user can call the generation
// endpoints. The defaults allow short bursts while keeping sustained load on
// the AI backend predictable.
type aiLimitConfig struct {
	Capacity       int           `env:"AI_RATE_LIMIT_CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"AI_RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"AI_RATE_LIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg, logger.WithService("blogfusion"))
	logger.SetAsDefault(log)

	var (
		mongoCfg   mongo.Config
		redisCfg   redis.Config
		httpCfg    httpserver.Config
		authCfg    auth.Config
		billingCfg billing.Config
		aigenCfg   aigen.Config
		storageCfg storage.Config
		limitCfg   aiLimitConfig
	)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&billingCfg)
	config.MustLoad(&aigenCfg)
	config.MustLoad(&storageCfg)
	config.MustLoad(&limitCfg)

	db, err := mongo.ConnectDatabase(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("mongodb disconnect failed", logger.Error(err))
		}
	}()

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("redis close failed", logger.Error(err))
		}
	}()

	provider, err := newBillingProvider(billingCfg.Provider)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(authCfg)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	authMW := auth.Middleware(tokens)

	aiClient, err := aigen.NewClient(aigenCfg)
	if err != nil {
		return fmt.Errorf("ai client: %w", err)
	}

	uploader, err := storage.NewS3Storage(ctx, storageCfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	aiLimiter, err := ratelimit.NewBucket(ratelimit.NewRedisStore(rdb, "ratelimit:ai"), ratelimit.Config{
		Capacity:       limitCfg.Capacity,
		RefillRate:     limitCfg.RefillRate,
		RefillInterval: limitCfg.RefillInterval,
	})
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	planStore := billing.NewMongoPlanStore(db)
	postStore := blog.NewMongoPostStore(db)

	checkout := billing.NewCheckoutService(provider, billingCfg, log)
	ingestor := billing.NewIngestor(provider, planStore, log)
	blogSvc := blog.NewService(postStore, planStore, aiClient, aiClient, uploader, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", healthHandler(
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(rdb),
	))
	r.Mount("/billing", billing.NewRouter(checkout, ingestor, provider, authMW))
	r.Mount("/posts", blog.NewRouter(blogSvc, authMW, aiLimiter))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func newBillingProvider(name string) (billing.Provider, error) {
	switch name {
	case "stripe":
		var cfg billing.StripeConfig
		config.MustLoad(&cfg)
		return billing.NewStripeProvider(cfg)
	case "paddle":
		var cfg billing.PaddleConfig
		config.MustLoad(&cfg)
		return billing.NewPaddleProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown billing provider %q", name)
	}
}

func healthHandler(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				slog.ErrorContext(r.Context(), "healthcheck failed",
					logger.Error(err), requestid.LogAttr(r.Context()))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

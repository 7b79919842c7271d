package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Victor-armando18/pricing-scheme/internal/config"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/cache"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/events"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/sqlstore"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
	"github.com/Victor-armando18/pricing-scheme/internal/usecase"
)

func main() {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Overload(".env")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	svc, store, cleanup, err := buildEngine(context.Background(), cfg)
	if err != nil {
		logging.Error("engine setup failed", zap.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	e := newServer(cfg, &handler{svc: svc, store: store})
	logging.Info("starting pricing scheme engine", zap.String("addr", cfg.HTTP.Addr))
	if err := e.Start(cfg.HTTP.Addr); err != nil && err != http.ErrServerClosed {
		logging.Error("server stopped", zap.Error(err))
	}
}

// buildEngine escolhe os adaptadores conforme a configuração: base de dados ou
// pacote de regras em ficheiro, Redis ou guarda local, Kafka se houver brokers.
func buildEngine(ctx context.Context, cfg *config.Config) (*usecase.EngineService, interfaces.TransactionStore, func(), error) {
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	var repo interfaces.RuleRepository
	var store interfaces.TransactionStore
	if cfg.Database.DSN != "" {
		db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, nil, cleanup, err
		}
		closers = append(closers, func() { db.Close() })
		if err := db.Migrate(ctx); err != nil {
			return nil, nil, cleanup, err
		}
		repo, store = db, db
		logging.Info("using database rule repository", zap.String("driver", cfg.Database.Driver))
	} else {
		pack, err := infrastructure.LoadConfiguredPack(ctx, cfg.Engine.RulePack, cfg.Engine.RulesVersion)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("load rule pack: %w", err)
		}
		repo = infrastructure.NewFileRuleRepository(pack)
		store = infrastructure.NewMemoryTransactionStore()
		logging.Info("using rule pack", zap.String("path", cfg.Engine.RulePack), zap.Int("rules", len(pack.Rules)))
	}

	var guard interfaces.SaveGuard = infrastructure.NewMemorySaveGuard()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		closers = append(closers, func() { rdb.Close() })
		guard = cache.NewRedisSaveGuard(rdb, cfg.Redis.GuardTTL)
	}

	opts := []usecase.Option{
		usecase.WithTransactionStore(store),
		usecase.WithSaveGuard(guard),
		usecase.WithAutoApplyOrder(usecase.AutoApplyOrder(cfg.Engine.AutoApplyOrder)),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		w := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		closers = append(closers, func() { w.Close() })
		opts = append(opts, usecase.WithEventPublisher(events.NewKafkaPublisher(w)))
	}

	svc := usecase.NewEngineService(repo, infrastructure.NewJsonLogicExecutor(), opts...)
	return svc, store, cleanup, nil
}

func newServer(cfg *config.Config, h *handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logging.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if cfg.HTTP.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: middleware.DefaultSkipper,
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.HTTP.RateLimit),
				Burst:     cfg.HTTP.Burst,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			},
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "pricing-scheme",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.POST("/evaluate", h.evaluate)
	e.POST("/auto-apply", h.autoApply)
	e.POST("/validate", h.validate)

	docs := e.Group("/transactions")
	if cfg.HTTP.JWTSecret != "" {
		docs.Use(echojwt.WithConfig(echojwt.Config{SigningKey: []byte(cfg.HTTP.JWTSecret)}))
	}
	docs.POST("", h.save)
	docs.GET("/:id", h.get)
	docs.PATCH("/:id", h.patch)
	docs.POST("/:id/schemes", h.applyScheme)
	docs.DELETE("/:id/schemes/:rule", h.removeRule)
	return e
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	automationapp "github.com/anu-devcode/deploy-test-sub002/internal/application/automation"
	catalogapp "github.com/anu-devcode/deploy-test-sub002/internal/application/catalog"
	financeapp "github.com/anu-devcode/deploy-test-sub002/internal/application/finance"
	identityapp "github.com/anu-devcode/deploy-test-sub002/internal/application/identity"
	inventoryapp "github.com/anu-devcode/deploy-test-sub002/internal/application/inventory"
	partnerapp "github.com/anu-devcode/deploy-test-sub002/internal/application/partner"
	reportapp "github.com/anu-devcode/deploy-test-sub002/internal/application/report"
	reviewapp "github.com/anu-devcode/deploy-test-sub002/internal/application/review"
	tradeapp "github.com/anu-devcode/deploy-test-sub002/internal/application/trade"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/auth"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/cache"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/event"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/logger"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/persistence"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/storage"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/telemetry"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/handler"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/middleware"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/anu-devcode/deploy-test-sub002/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// eventDedupTTL bounds how long a handled event id is remembered
const eventDedupTTL = 24 * time.Hour

//	@title			Shop Backend API
//	@version		1.0
//	@description	Multi-tenant e-commerce backend: catalog, carts, transactional checkout, orders, payments, inventory, reviews and automation rules.

//	@contact.name	API Support
//	@contact.url	https://github.com/anu-devcode/deploy-test-sub002

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry comes first so the application logger can tee into the OTLP log pipeline
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	var extraCores []zapcore.Core
	if core := providers.LogCore(); core != nil {
		extraCores = append(extraCores, core)
	}
	log, err := logger.New(logCfg, extraCores...)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.Profiling.Enabled {
		profiler, err := telemetry.StartProfiler(cfg.Profiling, cfg.App.Name, log)
		if err != nil {
			log.Warn("Continuous profiling unavailable", zap.Error(err))
		} else {
			providers.EnableSpanProfiles()
			defer func() {
				if err := profiler.Stop(); err != nil {
					log.Warn("Profiler stop failed", zap.Error(err))
				}
			}()
		}
	}

	defaultTenantID, err := uuid.Parse(cfg.App.DefaultTenantID)
	if err != nil {
		log.Fatal("Invalid app.default_tenant_id", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:    cfg.Telemetry.DBLogFullSQL,
		SlowThreshold: 200 * time.Millisecond,
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// redisClient stays a nil interface when Redis is disabled; every consumer
	// falls back to its in-process variant.
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	idempotency := cache.NewIdempotencyStore(redisClient, log)

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	var queue automationapp.Queue = event.NewInMemoryQueue()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		queue = event.NewRedisQueue(redisClient)
	}

	images, err := newImageStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	salesRepo := persistence.NewGormSalesReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and subscribers
	bus := event.NewInMemoryEventBus(log)
	if err := subscribe(bus, providers, ruleRepo, queue, idempotency, log); err != nil {
		log.Fatal("Failed to register event subscribers", zap.Error(err))
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := bus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	authService := identityapp.NewAuthService(tenantRepo, userRepo, txScope, jwtService, blacklist, bus, log)
	tenantService := identityapp.NewTenantService(tenantRepo, log)
	productService := catalogapp.NewProductService(productRepo, reviewRepo, images, bus, cfg.Storage.PresignExpiration, log)
	customerService := partnerapp.NewCustomerService(customerRepo)
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo, txScope)
	stockService := inventoryapp.NewStockService(txScope, warehouseRepo, movementRepo, bus, log)
	cartService := tradeapp.NewCartService(cartRepo, customerRepo, productRepo)
	checkoutService := tradeapp.NewCheckoutService(txScope, customerRepo, tenantRepo, idempotency, cfg.Checkout.IdempotencyTTL, bus, log)
	orderService := tradeapp.NewOrderService(orderRepo, txScope, bus, log)
	paymentService := financeapp.NewPaymentService(paymentRepo, orderRepo, txScope, bus, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, customerRepo, bus, log)
	ruleService := automationapp.NewRuleService(ruleRepo)
	salesService := reportapp.NewSalesService(salesRepo)

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	handlers := router.Handlers{
		System:     handler.NewSystemHandler(cfg.App.Name, version, checks),
		Auth:       handler.NewAuthHandler(authService),
		Tenant:     handler.NewTenantHandler(tenantService),
		Product:    handler.NewProductHandler(productService),
		Customer:   handler.NewCustomerHandler(customerService),
		Warehouse:  handler.NewWarehouseHandler(warehouseService, stockService),
		Cart:       handler.NewCartHandler(cartService, checkoutService),
		Order:      handler.NewOrderHandler(orderService),
		Payment:    handler.NewPaymentHandler(paymentService),
		Review:     handler.NewReviewHandler(reviewService),
		Automation: handler.NewAutomationHandler(ruleService),
		Report:     handler.NewReportHandler(salesService),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware chain (order matters):
	// 1. Recovery - Catch panics
	// 2. RequestID - Generate/propagate request ID
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing and HTTP metrics
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Enabled(),
		SkipPaths:   []string{"/api/v1/health", "/api/v1/ping"},
	}))
	httpMetrics, err := middleware.HTTPMetrics(providers.Meter())
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{
			DefaultTenantID: defaultTenantID,
			Logger:          log,
		}),
		middleware.TracingAttributeInjector(),
		middleware.Profiling(cfg.Profiling.Enabled),
	)
	if cfg.HTTP.RateLimitEnabled {
		var limiter middleware.Limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		if redisClient != nil {
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		}
		r.Use(middleware.RateLimit(limiter, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Bool("shared", redisClient != nil),
		)
	}
	r.Register(router.ShopRoutes(handlers)...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// newImageStorage returns the S3 bucket when storage is enabled and a local
// stub that signs nothing otherwise.
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ImageStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, product image URLs are placeholders")
		return storage.NewStubObjectStorage("http://localhost:" + cfg.App.Port + "/_storage"), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}

// subscribe attaches the metric recorder and the automation engine to the bus.
// The engine is wrapped so a redelivered event never fires a rule twice.
func subscribe(
	bus shared.EventBus,
	providers *telemetry.Providers,
	rules automation.RuleRepository,
	queue automationapp.Queue,
	store shared.IdempotencyStore,
	log *zap.Logger,
) error {
	metrics, err := telemetry.NewShopMetrics(providers.Meter())
	if err != nil {
		return err
	}
	bus.Subscribe(metrics, metrics.EventTypes()...)

	engine := event.NewIdempotentHandler(automationapp.NewEngine(rules, queue, log), store, eventDedupTTL, log)
	bus.Subscribe(engine, engine.EventTypes()...)
	return nil
}

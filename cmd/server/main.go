package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/batterydepartment/backend/internal/application/analytics"
	catalogapp "github.com/batterydepartment/backend/internal/application/catalog"
	complianceapp "github.com/batterydepartment/backend/internal/application/compliance"
	engravingapp "github.com/batterydepartment/backend/internal/application/engraving"
	identityapp "github.com/batterydepartment/backend/internal/application/identity"
	inventoryapp "github.com/batterydepartment/backend/internal/application/inventory"
	orderapp "github.com/batterydepartment/backend/internal/application/order"
	partnerapp "github.com/batterydepartment/backend/internal/application/partner"
	"github.com/batterydepartment/backend/internal/infrastructure/analytics"
	"github.com/batterydepartment/backend/internal/infrastructure/auth"
	"github.com/batterydepartment/backend/internal/infrastructure/cache"
	"github.com/batterydepartment/backend/internal/infrastructure/config"
	"github.com/batterydepartment/backend/internal/infrastructure/event"
	"github.com/batterydepartment/backend/internal/infrastructure/logger"
	"github.com/batterydepartment/backend/internal/infrastructure/payment"
	"github.com/batterydepartment/backend/internal/infrastructure/persistence"
	"github.com/batterydepartment/backend/internal/infrastructure/scheduler"
	"github.com/batterydepartment/backend/internal/infrastructure/search"
	"github.com/batterydepartment/backend/internal/infrastructure/storage"
	"github.com/batterydepartment/backend/internal/interfaces/http/handler"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/batterydepartment/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Battery Department backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	designRepo := persistence.NewGormDesignRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	certificateRepo := persistence.NewGormCertificateRepository(db.DB)
	regionRuleRepo := persistence.NewGormRegionRuleRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Services publish through the outbox table; the outbox processor
	// reads entries back and dispatches them to the in-memory bus.
	eventPublisher := event.NewPersistentEventPublisher(db.DB, eventSerializer)

	// Redis is used for the token blacklist and checkout idempotency.
	// The backend degrades to in-process stores when it is unreachable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var tokenBlacklist auth.TokenBlacklist
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		redisClient = nil
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist)
	productService := catalogapp.NewProductService(productRepo)
	designService := engravingapp.NewDesignService(designRepo, productRepo)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, transactionRepo)
	inventoryService.SetLockExpiry(cfg.StockMonitor.DefaultCartHold)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo, supplierRepo, inventoryRepo, log)
	complianceService := complianceapp.NewComplianceService(certificateRepo, regionRuleRepo, productRepo)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, designRepo, warehouseRepo, inventoryService)
	orderService.SetShipmentScreener(complianceService)

	authService.SetEventPublisher(eventPublisher)
	productService.SetEventPublisher(eventPublisher)
	designService.SetEventPublisher(eventPublisher)
	inventoryService.SetEventPublisher(eventPublisher)
	supplierService.SetEventPublisher(eventPublisher)
	warehouseService.SetEventPublisher(eventPublisher)
	complianceService.SetEventPublisher(eventPublisher)
	orderService.SetEventPublisher(eventPublisher)

	// Checkout idempotency store (Redis with in-memory fallback)
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	orderService.SetIdempotencyStore(idempotencyStore)

	// Stripe payment gateway
	var stripeService *payment.StripeService
	if cfg.Stripe.SecretKey != "" {
		stripeService, err = payment.NewStripeService(cfg.Stripe, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe", zap.Error(err))
		}
		orderService.SetPaymentGateway(payment.NewCheckoutGateway(stripeService))
		log.Info("Stripe payment gateway enabled")
	} else {
		log.Warn("Stripe not configured, checkout will fail until a gateway is set")
	}

	// S3 object storage for engraving previews, compliance documents and
	// the daily inventory export
	var objectStore *storage.S3ObjectStore
	if cfg.Storage.Bucket != "" {
		objectStore, err = storage.NewS3ObjectStore(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		designService.SetPreviewStorage(objectStore)
		complianceService.SetDocumentStorage(objectStore)
		log.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Initialize event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	orderPaidHandler := orderapp.NewOrderPaidHandler(orderRepo, designRepo, log)
	eventBus.Subscribe(orderPaidHandler)
	orderShippedHandler := orderapp.NewOrderShippedHandler(orderRepo, inventoryService, log)
	eventBus.Subscribe(orderShippedHandler)

	// Elasticsearch product index
	var productIndexer *search.ProductIndexer
	if cfg.Search.Enabled {
		esClient, err := search.NewClient(cfg.Search, log)
		if err != nil {
			log.Fatal("Failed to initialize Elasticsearch client", zap.Error(err))
		}
		productIndexer = search.NewProductIndexer(esClient, cfg.Search.Index, log)
		productSearcher := search.NewProductSearcher(esClient, cfg.Search.Index)
		productService.SetSearcher(search.NewCatalogSearchGateway(productSearcher))

		productIndexHandler := catalogapp.NewProductIndexHandler(productRepo, productIndexer, log)
		eventBus.Subscribe(productIndexHandler)
		log.Info("Product search enabled", zap.String("index", cfg.Search.Index))
	}

	// Kafka analytics pipeline
	var trackingService *analyticsapp.TrackingService
	var analyticsProducer *analytics.Producer
	if cfg.Analytics.Enabled {
		analyticsProducer = analytics.NewProducer(cfg.Analytics, log)
		defer func() {
			if err := analyticsProducer.Close(); err != nil {
				log.Error("Error closing analytics producer", zap.Error(err))
			}
		}()
		trackingService = analyticsapp.NewTrackingService(analyticsProducer, log)

		domainEventRelay := analytics.NewDomainEventRelay(analyticsProducer, log)
		eventBus.Subscribe(domainEventRelay)
		log.Info("Analytics pipeline enabled", zap.Strings("brokers", cfg.Analytics.Brokers))
	} else {
		trackingService = analyticsapp.NewTrackingService(nil, log)
	}

	// Response cache for public catalog reads
	var responseCache *cache.ResponseCache
	if cfg.Cache.Enabled {
		responseCache = cache.NewResponseCache(
			cache.WithMaxEntries(cfg.Cache.MaxEntries),
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithResponseCacheLogger(log),
		)
		defer responseCache.Close()

		cacheInvalidationHandler := catalogapp.NewCatalogCacheInvalidationHandler(
			responseCache, "GET /api/v1/products", log,
		)
		eventBus.Subscribe(cacheInvalidationHandler)
		log.Info("Response cache enabled",
			zap.Int("max_entries", cfg.Cache.MaxEntries),
			zap.Duration("ttl", cfg.Cache.TTL),
		)
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Stock monitor sweeps expired locks and low stock thresholds
	var stockMonitor *scheduler.StockMonitor
	if cfg.StockMonitor.Enabled {
		stockMonitor = scheduler.NewStockMonitor(cfg.StockMonitor, inventoryRepo, transactionRepo, eventPublisher, log)
		if err := stockMonitor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start stock monitor", zap.Error(err))
		}
		defer func() {
			if err := stockMonitor.Stop(context.Background()); err != nil {
				log.Error("Error stopping stock monitor", zap.Error(err))
			}
		}()
		log.Info("Stock monitor started",
			zap.Duration("check_interval", cfg.StockMonitor.CheckInterval),
		)
	}

	// Background job scheduler for inventory exports and search reindexing
	var jobScheduler *scheduler.Scheduler
	var exportCron *scheduler.ExportCron
	if (cfg.Export.Enabled && objectStore != nil) || productIndexer != nil {
		jobScheduler = scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), log)

		if cfg.Export.Enabled && objectStore != nil {
			exportExecutor := scheduler.NewInventoryExportExecutor(
				inventoryRepo, productRepo, warehouseRepo, objectStore, cfg.Export.Prefix, log,
			)
			jobScheduler.RegisterExecutor(scheduler.JobTypeInventoryExport, exportExecutor)
		}
		if productIndexer != nil {
			reindexExecutor := scheduler.NewSearchReindexExecutor(productRepo, productIndexer, log)
			jobScheduler.RegisterExecutor(scheduler.JobTypeSearchReindex, reindexExecutor)
		}

		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start job scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping job scheduler", zap.Error(err))
			}
		}()

		if cfg.Export.Enabled && objectStore != nil {
			exportCron = scheduler.NewExportCron(scheduler.ExportCronConfig{Hour: cfg.Export.Hour}, jobScheduler, log)
			if err := exportCron.Start(context.Background()); err != nil {
				log.Fatal("Failed to start export cron", zap.Error(err))
			}
			defer func() {
				if err := exportCron.Stop(context.Background()); err != nil {
					log.Error("Error stopping export cron", zap.Error(err))
				}
			}()
			log.Info("Daily inventory export scheduled", zap.Int("hour", cfg.Export.Hour))
		}
	}

	// Initialize HTTP handlers
	healthHandler := handler.NewHealthHandler(db, redisClient)
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	designHandler := handler.NewDesignHandler(designService)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	supplierHandler := handler.NewSupplierHandler(supplierService, authService)
	complianceHandler := handler.NewComplianceHandler(complianceService)
	analyticsHandler := handler.NewAnalyticsHandler(trackingService)
	opsHandler := handler.NewOpsHandler(responseCache, outboxRepo, stockMonitor, exportCron, jobScheduler, objectStore, cfg.Export.Prefix)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	healthHandler.RegisterRoutes(&engine.RouterGroup)

	// JWT authentication applies to the whole API group. Public endpoints
	// (catalog browsing, auth, analytics ingest, Stripe webhook) are
	// listed as skip paths.
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(jwtConfig))

	r.Register(
		healthHandler,
		analyticsHandler,
		designHandler,
		orderHandler,
		inventoryHandler,
		warehouseHandler,
		supplierHandler,
		complianceHandler,
	)

	// Public catalog reads go through the response cache
	var cacheMW gin.HandlerFunc
	if responseCache != nil {
		cacheMW = middleware.ResponseCacheMiddleware(responseCache)
	}
	r.RegisterCached(cacheMW, productHandler)

	r.RegisterAdmin(productHandler, designHandler, orderHandler, inventoryHandler)

	if stripeService != nil {
		r.Register(handler.NewStripeWebhookHandler(stripeService, orderService, log))
	}

	api := r.Setup()

	// Ops surface for back-office diagnostics
	opsHandler.RegisterRoutes(api)

	// Credential endpoints get a stricter per-IP limiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		authHandler.RegisterRoutes(api, middleware.RateLimit(authLimiter))
	} else {
		authHandler.RegisterRoutes(api)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

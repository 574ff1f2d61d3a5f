package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	couponapp "github.com/fleetrepair/backend/internal/application/coupon"
	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	repairdomain "github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	choicecache "github.com/fleetrepair/backend/internal/infrastructure/choice"
	"github.com/fleetrepair/backend/internal/infrastructure/config"
	"github.com/fleetrepair/backend/internal/infrastructure/event"
	"github.com/fleetrepair/backend/internal/infrastructure/logger"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence"
	"github.com/fleetrepair/backend/internal/interfaces/http/handler"
	"github.com/fleetrepair/backend/internal/interfaces/http/middleware"
	"github.com/fleetrepair/backend/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting Fleet Repair Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
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

	// Redis backs the choice token cache. Losing it degrades lookups to
	// the database, so a failed ping is not fatal.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	{
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable, choice cache disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		}
		cancel()
	}
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Shared infrastructure for the application services
	txScope := persistence.NewGormTransactionScope(db.DB)
	choiceManager := choicecache.NewManager(db.DB, redisClient, cfg.Repair.ChoiceCacheTTL, log)
	repairRefGen := shared.NewTimestampReferenceGenerator(cfg.Repair.ReferencePrefix)
	couponRefGen := shared.NewTimestampReferenceGenerator(cfg.Repair.CouponReferencePrefix)

	recalculator := repairapp.NewPriceRecalculator(persistence.NewGormPriceStore(db.DB), log)
	recalculator.SetEventPublisher(eventBus)

	closedValues := cfg.Repair.ClosedStatuses
	if len(closedValues) == 0 {
		closedValues = repairdomain.DefaultClosedStatuses()
	}

	// Initialize application services
	repairService := repairapp.NewService(
		txScope,
		choiceManager,
		repairRefGen,
		recalculator,
		repairdomain.NewClosedStatusSet(closedValues),
		log,
	)
	repairService.SetEventPublisher(eventBus)

	itemService := repairapp.NewItemService(
		txScope,
		persistence.NewGormPriceManager(db.DB),
		persistence.NewGormProductCatalog(db.DB),
		recalculator,
		log,
	)
	breakdownService := repairapp.NewBreakdownService(txScope, log)
	moduleService := repairapp.NewModuleService(txScope, log)

	couponService := couponapp.NewService(txScope, couponRefGen, log)
	couponService.SetEventPublisher(eventBus)

	if cfg.Repair.AutoRecreditCoupon {
		recreditHandler := couponapp.NewRepairClosedHandler(couponService, log)
		eventBus.Subscribe(recreditHandler, recreditHandler.EventTypes()...)
		log.Info("Automatic coupon recredit enabled")
	}

	// Initialize HTTP handlers
	repairHandler := handler.NewRepairHandler(repairService)
	itemHandler := handler.NewRepairItemHandler(itemService)
	breakdownHandler := handler.NewRepairBreakdownHandler(breakdownService)
	moduleHandler := handler.NewRepairModuleHandler(moduleService)
	couponHandler := handler.NewCouponHandler(couponService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

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
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Repair orders
	repairRoutes := router.NewDomainGroup("repairs", "/repairs")
	repairRoutes.POST("", repairHandler.Create)
	repairRoutes.GET("", repairHandler.List)
	repairRoutes.GET("/reference/:reference", repairHandler.GetByReference)
	repairRoutes.GET("/:id", repairHandler.GetByID)
	repairRoutes.PUT("/:id", repairHandler.Update)
	repairRoutes.GET("/:id/history", repairHandler.History)
	repairRoutes.POST("/:id/items", itemHandler.Add)
	repairRoutes.GET("/:id/items", itemHandler.ListByRepair)
	repairRoutes.POST("/:id/breakdowns", breakdownHandler.Attach)
	repairRoutes.GET("/:id/breakdowns", breakdownHandler.ListByRepair)

	// Repair line items and attached breakdowns, addressed by own ID
	itemRoutes := router.NewDomainGroup("repair-items", "/repair-items")
	itemRoutes.PUT("/:id", itemHandler.Update)
	itemRoutes.DELETE("/:id", itemHandler.Remove)

	repairBreakdownRoutes := router.NewDomainGroup("repair-breakdowns", "/repair-breakdowns")
	repairBreakdownRoutes.PUT("/:id", breakdownHandler.SetRepairImpossible)
	repairBreakdownRoutes.DELETE("/:id", breakdownHandler.Detach)

	// Repair modules (per-account contracts)
	moduleRoutes := router.NewDomainGroup("repair-modules", "/repair-modules")
	moduleRoutes.POST("", moduleHandler.Create)
	moduleRoutes.PUT("/:id", moduleHandler.Update)

	// Coupons
	couponRoutes := router.NewDomainGroup("coupons", "/coupons")
	couponRoutes.POST("", couponHandler.Create)
	couponRoutes.GET("/:id", couponHandler.GetByID)
	couponRoutes.PUT("/:id", couponHandler.Update)
	couponRoutes.POST("/:id/release", couponHandler.Release)
	couponRoutes.POST("/:id/recredit", couponHandler.Recredit)

	// Account-scoped views
	accountRoutes := router.NewDomainGroup("accounts", "/accounts")
	accountRoutes.GET("/:id/module", moduleHandler.GetByAccount)
	accountRoutes.GET("/:id/coupons", couponHandler.ListByAccount)

	// Device-scoped views
	deviceRoutes := router.NewDomainGroup("devices", "/devices")
	deviceRoutes.GET("/:id/repairs", repairHandler.ListByDevice)

	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(repairRoutes).
		Register(itemRoutes).
		Register(repairBreakdownRoutes).
		Register(moduleRoutes).
		Register(couponRoutes).
		Register(accountRoutes).
		Register(deviceRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	partnerapp "github.com/freightbooks/backend/internal/application/partner"
	voucherapp "github.com/freightbooks/backend/internal/application/voucher"
	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/freightbooks/backend/internal/domain/voucher"
	"github.com/freightbooks/backend/internal/infrastructure/cache"
	"github.com/freightbooks/backend/internal/infrastructure/config"
	"github.com/freightbooks/backend/internal/infrastructure/logger"
	"github.com/freightbooks/backend/internal/infrastructure/persistence"
	"github.com/freightbooks/backend/internal/interfaces/http/handler"
	"github.com/freightbooks/backend/internal/interfaces/http/middleware"
	"github.com/freightbooks/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//	@title			FreightBooks Backend API
//	@version		1.0
//	@description	Freight voucher and tax computation backend for multi-currency job billing

//	@contact.name	API Support
//	@contact.url	https://github.com/freightbooks/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

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

	log.Info("Starting FreightBooks Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Initialize database with zap-backed gorm logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Repositories
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	counterpartyRepo := persistence.NewGormCounterpartyRepository(db.DB)

	// Duplicate-submit guard: Redis when reachable, in-memory otherwise
	guardFactory := cache.NewSubmitGuardFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	guard, err := guardFactory.CreateGuard()
	if err != nil {
		log.Fatal("Failed to create submit guard", zap.Error(err))
	}
	guardCfg := shared.SubmitGuardConfig{
		Enabled: cfg.SubmitGuard.Enabled,
		TTL:     cfg.SubmitGuard.TTL,
	}

	// Tax computation engine with configured exchange rates
	engine := voucher.NewEngine(buildRateTable(cfg.Rates, log))

	// Application services
	voucherService := voucherapp.NewService(voucherRepo, engine,
		voucherapp.WithSubmitGuard(guard, guardCfg),
		voucherapp.WithLogger(log),
	)
	counterpartyService := partnerapp.NewCounterpartyService(counterpartyRepo)

	// Handlers
	voucherHandler := handler.NewVoucherHandler(voucherService)
	counterpartyHandler := handler.NewCounterpartyHandler(counterpartyService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	httpEngine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := httpEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
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
	httpEngine.Use(middleware.RequestID())
	httpEngine.Use(logger.Recovery(log))
	httpEngine.Use(logger.GinMiddleware(log))
	httpEngine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	httpEngine.Use(middleware.CORSWithConfig(corsConfig))

	httpEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	httpEngine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(httpEngine, router.WithAPIVersion("v1"))

	voucherRoutes := router.NewDomainGroup("vouchers", "/vouchers")
	voucherRoutes.
		POST("", voucherHandler.CreateVoucher).
		GET("", voucherHandler.ListVouchers).
		POST("/preview", voucherHandler.PreviewVoucher).
		GET("/jobs/:job_ref/summary", voucherHandler.GetJobSummary).
		GET("/:id", voucherHandler.GetVoucher).
		PUT("/:id", voucherHandler.UpdateVoucher).
		DELETE("/:id", voucherHandler.DeleteVoucher).
		POST("/:id/submit", voucherHandler.SubmitVoucher)

	counterpartyRoutes := router.NewDomainGroup("counterparties", "/counterparties")
	counterpartyRoutes.
		POST("", counterpartyHandler.CreateCounterparty).
		GET("", counterpartyHandler.ListCounterparties).
		GET("/:id", counterpartyHandler.GetCounterparty)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping)

	r.Register(voucherRoutes).
		Register(counterpartyRoutes).
		Register(systemRoutes)

	r.Setup()

	// Start HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        httpEngine,
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

// buildRateTable turns the [rates] config section into a rate table.
// Unparseable entries are skipped with a warning; an empty section
// falls back to the built-in defaults.
func buildRateTable(rates map[string]string, log *zap.Logger) *voucher.RateTable {
	if len(rates) == 0 {
		return voucher.DefaultRateTable()
	}

	parsed := make(map[voucher.Currency]decimal.Decimal, len(rates))
	for code, value := range rates {
		rate, err := decimal.NewFromString(value)
		if err != nil || rate.Sign() <= 0 {
			log.Warn("Skipping invalid exchange rate",
				zap.String("currency", code),
				zap.String("value", value),
			)
			continue
		}
		parsed[voucher.Currency(strings.ToUpper(code))] = rate
	}
	if len(parsed) == 0 {
		return voucher.DefaultRateTable()
	}
	return voucher.NewRateTable(voucher.BaseCurrency, parsed)
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

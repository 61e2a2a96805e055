package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	billingapp "github.com/venuedesk/backend/internal/application/billing"
	"github.com/venuedesk/backend/internal/application/effect"
	schedulingapp "github.com/venuedesk/backend/internal/application/scheduling"
	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/infrastructure/auth"
	"github.com/venuedesk/backend/internal/infrastructure/cache"
	"github.com/venuedesk/backend/internal/infrastructure/config"
	"github.com/venuedesk/backend/internal/infrastructure/event"
	"github.com/venuedesk/backend/internal/infrastructure/logger"
	"github.com/venuedesk/backend/internal/infrastructure/notify"
	"github.com/venuedesk/backend/internal/infrastructure/payment"
	"github.com/venuedesk/backend/internal/infrastructure/persistence"
	"github.com/venuedesk/backend/internal/infrastructure/printing"
	"github.com/venuedesk/backend/internal/infrastructure/scheduler"
	"github.com/venuedesk/backend/internal/infrastructure/storage"
	"github.com/venuedesk/backend/internal/interfaces/http/handler"
	"github.com/venuedesk/backend/internal/interfaces/http/middleware"
	"github.com/venuedesk/backend/internal/interfaces/http/router"
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

	log.Info("Starting VenueDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
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
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	rateRepo := persistence.NewGormResourceRateRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	auditLog := persistence.NewGormAuditLog(db.DB, log)

	// Redis-backed stores, with in-memory fallbacks for single-node setups
	var idempotencyStore effect.IdempotencyStore
	var tokenBlacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory stores", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		idempotencyStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "venuedesk")
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		log.Info("Redis connected successfully")
	}

	// Document rendering. A missing Chrome binary disables PDF generation
	// but must not keep the API from serving.
	var docRenderer effect.DocumentRenderer
	chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.PDF.RenderTimeout,
		ExecPath:       cfg.PDF.ChromePath,
		Logger:         log,
	})
	if err != nil {
		log.Warn("PDF rendering disabled", zap.Error(err))
	} else {
		pdfRenderer, err := printing.NewDocumentPDFRenderer(chromeRenderer)
		if err != nil {
			log.Warn("PDF rendering disabled", zap.Error(err))
		} else {
			docRenderer = pdfRenderer
		}
	}

	// Document archive: S3-compatible storage when configured, otherwise a
	// process-local archive
	var docArchive effect.DocumentArchive
	if cfg.Storage.AccessKeyID != "" || cfg.Storage.Endpoint != "" {
		s3Archive, err := storage.NewS3DocumentArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize document archive", zap.Error(err))
		}
		docArchive = s3Archive
		log.Info("Document archive using S3-compatible storage",
			zap.String("bucket", cfg.Storage.Bucket))
	} else {
		docArchive = storage.NewInMemoryDocumentArchive()
		log.Warn("No object storage configured, archived documents are kept in memory")
	}

	// Customer notifications: SMTP when configured, otherwise log-only
	var notifier effect.Notifier
	if cfg.Notify.SMTPHost != "" {
		smtpNotifier, err := notify.NewSMTPNotifier(&cfg.Notify, log)
		if err != nil {
			log.Fatal("Failed to initialize SMTP notifier", zap.Error(err))
		}
		notifier = smtpNotifier
	} else {
		notifier = notify.NewLogNotifier(log)
		log.Warn("No SMTP host configured, notifications are logged only")
	}

	// Payment gateway (optional)
	var gateway effect.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		stripeAdapter, err := payment.NewStripeAdapter(&payment.StripeConfig{
			SecretKey:      cfg.Stripe.SecretKey,
			WebhookSecret:  cfg.Stripe.WebhookSecret,
			SuccessURL:     cfg.Stripe.SuccessURL,
			CancelURL:      cfg.Stripe.CancelURL,
			RequestTimeout: cfg.Stripe.RequestTimeout,
		})
		if err != nil {
			log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
		}
		gateway = stripeAdapter
		log.Info("Stripe payment gateway enabled")
	} else {
		log.Warn("No Stripe secret key configured, payment links are disabled")
	}

	// Side-effect dispatcher shared by all document services
	dispatcher := effect.NewDispatcher(effect.DispatcherConfig{
		Notifier: notifier,
		Renderer: docRenderer,
		Archive:  docArchive,
		Gateway:  gateway,
		Audit:    auditLog,
		Logger:   log,
	})

	// Initialize event bus and the audit timeline subscriber
	eventBus := event.NewInMemoryEventBus(log)
	timelineHandler := effect.NewDocumentTimelineHandler(auditLog, log)
	eventBus.Subscribe(timelineHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Tax policy shared by pricing across all documents
	taxPolicy := billing.TaxPolicy{
		Mode:        billing.TaxMode(cfg.Billing.TaxMode),
		RatePercent: cfg.Billing.TaxRatePercent,
	}

	// Initialize application services
	bookingService := schedulingapp.NewBookingService(schedulingapp.BookingServiceConfig{
		BookingRepo:    bookingRepo,
		RateRepo:       rateRepo,
		Dispatcher:     dispatcher,
		EventPublisher: eventBus,
		TaxPolicy:      taxPolicy,
		Logger:         log,
	})
	quotationService := billingapp.NewQuotationService(billingapp.QuotationServiceConfig{
		QuotationRepo:  quotationRepo,
		BookingRepo:    bookingRepo,
		Dispatcher:     dispatcher,
		EventPublisher: eventBus,
		TaxPolicy:      taxPolicy,
		Logger:         log,
	})
	invoiceService := billingapp.NewInvoiceService(billingapp.InvoiceServiceConfig{
		InvoiceRepo:    invoiceRepo,
		BookingRepo:    bookingRepo,
		Dispatcher:     dispatcher,
		EventPublisher: eventBus,
		TaxPolicy:      taxPolicy,
		Logger:         log,
	})

	var paymentCallbackService *billingapp.PaymentCallbackService
	if gateway != nil {
		paymentCallbackService = billingapp.NewPaymentCallbackService(billingapp.PaymentCallbackServiceConfig{
			Gateway:     gateway,
			Idempotency: idempotencyStore,
			InvoiceSvc:  invoiceService,
			Logger:      log,
		})
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Background sweeps for time-driven document transitions
	if cfg.Scheduler.Enabled {
		expirySweeper := scheduler.NewQuotationExpirySweeper(quotationService, cfg.Scheduler, log)
		if err := expirySweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start quotation expiry sweeper", zap.Error(err))
		}
		defer func() {
			if err := expirySweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping quotation expiry sweeper", zap.Error(err))
			}
		}()

		overdueSweeper := scheduler.NewInvoiceOverdueSweeper(invoiceService, cfg.Scheduler, log)
		if err := overdueSweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start invoice overdue sweeper", zap.Error(err))
		}
		defer func() {
			if err := overdueSweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping invoice overdue sweeper", zap.Error(err))
			}
		}()

		log.Info("Document sweepers started",
			zap.Duration("quotation_expiry_interval", cfg.Scheduler.QuotationExpiryInterval),
			zap.Duration("overdue_interval", cfg.Scheduler.OverdueInterval),
			zap.Int("batch_size", cfg.Scheduler.BatchSize),
		)
	}

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	systemHandler := handler.NewSystemHandler()

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
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Payment gateway webhook (no authentication; the gateway signs its calls)
	if paymentCallbackService != nil {
		paymentCallbackHandler := handler.NewPaymentCallbackHandler(paymentCallbackService)
		callbackGroup := engine.Group("/api/v1/payment/callback")
		callbackGroup.POST("/stripe/:owner_id", paymentCallbackHandler.HandleStripeCallback)
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/payment/callback",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Throttle after authentication so the limit keys on the owner claim
	if cfg.HTTP.RateLimitPerMin > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMin, time.Minute)
		defer rateLimiter.Stop()
		r.Use(middleware.RateLimit(rateLimiter))
	}

	// Scheduling domain (bookings, rate cards)
	schedulingRoutes := router.NewDomainGroup("scheduling", "/scheduling")
	schedulingRoutes.POST("/bookings", bookingHandler.Create)
	schedulingRoutes.GET("/bookings", bookingHandler.List)
	schedulingRoutes.GET("/bookings/:id", bookingHandler.GetByID)
	schedulingRoutes.POST("/bookings/:id/confirm", bookingHandler.Confirm)
	schedulingRoutes.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	schedulingRoutes.POST("/bookings/:id/complete", bookingHandler.Complete)
	schedulingRoutes.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)
	schedulingRoutes.PUT("/rates", bookingHandler.UpsertRate)
	schedulingRoutes.GET("/rates/:resource_id", bookingHandler.GetRate)

	// Billing domain (quotations, invoices, payments)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/quotations", quotationHandler.Create)
	billingRoutes.GET("/quotations", quotationHandler.List)
	billingRoutes.GET("/quotations/:id", quotationHandler.GetByID)
	billingRoutes.POST("/quotations/:id/send", quotationHandler.Send)
	billingRoutes.POST("/quotations/:id/resend", quotationHandler.Resend)
	billingRoutes.POST("/quotations/:id/accept", quotationHandler.Accept)
	billingRoutes.POST("/quotations/:id/decline", quotationHandler.Decline)
	billingRoutes.POST("/quotations/:id/expire", quotationHandler.Expire)

	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.GET("/bookings/:booking_id/invoices", invoiceHandler.ListByBooking)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/invoices/:id/resend", invoiceHandler.Resend)
	billingRoutes.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)
	billingRoutes.POST("/invoices/:id/void", invoiceHandler.Void)
	billingRoutes.POST("/invoices/:id/refund", invoiceHandler.Refund)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(schedulingRoutes).
		Register(billingRoutes).
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

	log.Info("Server exited")
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

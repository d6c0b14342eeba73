package main

import (
	"context"   // context package is needed for startup and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"finance_tracker/internal/api"       // Custom package for API handlers
	"finance_tracker/internal/assistant" // Chat assistant
	"finance_tracker/internal/config"    // Custom package for configuration
	"finance_tracker/internal/db"        // Database connection
	"finance_tracker/internal/events"    // Ledger events
	"finance_tracker/internal/logging"   // Logger setup
	"finance_tracker/internal/service"   // Ledger services

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/go-chi/cors"     // CORS for the SPA origins
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	logging.Setup(cfg.LogLevel, cfg.IsProd)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	redisClient, err := db.ConnectRedis(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Events go to RabbitMQ when configured, otherwise nowhere
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logrus.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer client.Close()
		publisher = client
	}

	categories := service.NewCategoryService(gdb)
	accounts := service.NewAccountService(gdb)
	transactions := service.NewTransactionService(gdb, publisher)
	goals := service.NewGoalService(gdb, publisher)
	statistics := service.NewStatisticsService(gdb, accounts, goals, transactions)

	// The rule-based parser answers alone when no Gemini key is configured
	catalog, err := assistant.LoadCatalog()
	if err != nil {
		logrus.Fatalf("failed to load intent catalog: %v", err)
	}
	var generator assistant.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logrus.Fatalf("failed to create Gemini client: %v", err)
		}
		defer gemini.Close()
		generator = gemini
	} else {
		logrus.Warn("GEMINI_API_KEY not set, assistant uses the rule-based parser")
	}
	bot := assistant.New(
		assistant.NewModelParser(generator, catalog),
		assistant.NewRedisPendingStore(redisClient),
		assistant.Services{
			Accounts:     accounts,
			Categories:   categories,
			Transactions: transactions,
			Goals:        goals,
			Statistics:   statistics,
		},
	)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.Deps{
		DB:            gdb,
		Redis:         redisClient,
		Cache:         api.NewCache(redisClient, cfg.CacheTTL),
		JWTSecret:     cfg.JWTSecret,
		Auth:          service.NewAuthService(gdb, categories, cfg.JWTSecret, cfg.JWTTTL),
		Accounts:      accounts,
		Categories:    categories,
		Transactions:  transactions,
		Goals:         goals,
		Statistics:    statistics,
		Notifications: service.NewNotificationService(gdb),
		Admin:         service.NewAdminService(gdb),
		Assistant:     bot,
	})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           corsHandler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}

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

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/config"
	"github.com/ddj1226/SpendSense/internal/forecast"
	"github.com/ddj1226/SpendSense/internal/handler"
	"github.com/ddj1226/SpendSense/internal/insight"
	"github.com/ddj1226/SpendSense/internal/integrations/plaid"
	"github.com/ddj1226/SpendSense/internal/middleware"
	"github.com/ddj1226/SpendSense/internal/repository"
	"github.com/ddj1226/SpendSense/internal/scheduler"
	"github.com/ddj1226/SpendSense/internal/service"
	"github.com/ddj1226/SpendSense/internal/utils"
	"github.com/ddj1226/SpendSense/internal/utils/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const plaidCacheEntries = 10000

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Amounts go to the frontend as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database
	db, err := repository.Open(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := repository.NewRepository(db, cfg.DBDriver)
	if err := repo.Migrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	cipher, err := utils.NewTokenCipherFromHex(cfg.EncryptionKey)
	if err != nil {
		logger.Fatalf("Failed to initialize token cipher: %v", err)
	}

	clk := clock.Real{}
	deps := service.Dependencies{
		Repo:      repo,
		Cipher:    cipher,
		Evaluator: analytics.NewEvaluator(forecast.NewForecaster(forecast.NewAdditiveFitter(forecast.DefaultOptions()), clk, logger), clk),
		Insights:  newInsights(cfg, logger),
		Clock:     clk,
		Config:    cfg,
		Log:       logger,
	}

	// Bank integration
	if cfg.PlaidEnabled() {
		client, err := plaid.NewClient(plaid.ClientConfig{
			Environment: cfg.PlaidEnv,
			ClientID:    cfg.PlaidClientID,
			Secret:      cfg.PlaidSecret,
		}, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize Plaid client: %v", err)
		}
		deps.Linker = client
		deps.Reader = client
		if cfg.PlaidCacheTTL > 0 {
			cached, err := plaid.NewCachedReader(client, cfg.PlaidCacheTTL, plaidCacheEntries, logger)
			if err != nil {
				logger.Fatalf("Failed to initialize Plaid cache: %v", err)
			}
			defer cached.Close()
			deps.Reader = cached
		}
		logger.Infof("Plaid integration enabled (%s)", cfg.PlaidEnv)
	} else {
		logger.Warn("PLAID_CLIENT_ID/PLAID_SECRET not set, bank routes will return 503")
	}

	if cfg.DigestEnabled() {
		deps.Digests = email.NewSender(cfg, logger)
	}

	svc := service.NewService(deps)
	h := handler.NewHandler(svc, logger)

	// Goal digest
	if cfg.DigestEnabled() && cfg.PlaidEnabled() {
		digest, err := scheduler.New(svc, cfg.DigestSchedule, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize digest scheduler: %v", err)
		}
		digest.Start()
		defer digest.Stop()
		logger.Infof("Next goal digest at %s", digest.Next().Format(time.RFC3339))
	}

	// Setup router
	router := h.Routes(cfg.JWTSecret)
	var root http.Handler = router
	root = middleware.RequestLogger(logger)(root)
	root = middleware.CORS(cfg.CORSOrigin)(root)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}

// newInsights picks the Anthropic generator when a key is configured
func newInsights(cfg *config.Config, logger *logrus.Logger) insight.Generator {
	if !cfg.AIEnabled() {
		logger.Info("ANTHROPIC_API_KEY not set, using template insights")
		return insight.NewTemplateGenerator()
	}
	return insight.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel,
		option.WithRequestTimeout(20*time.Second),
		option.WithMaxRetries(1),
	)
}

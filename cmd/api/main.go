// ABOUTME: Main entry point for the Conversion ROAST API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversion-roast-api/api"
	"conversion-roast-api/api/handlers"
	"conversion-roast-api/api/middleware"
	"conversion-roast-api/core/config"
	"conversion-roast-api/core/feedback"
	"conversion-roast-api/core/heatmap"
	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/core/roast"
	"conversion-roast-api/core/scoring"
	"conversion-roast-api/core/screenshot"
	"conversion-roast-api/core/services"
	stdhttp "conversion-roast-api/infrastructure/http/standard"
	logruslogger "conversion-roast-api/infrastructure/logger/logrus"
	appconfig "conversion-roast-api/pkg/config"
	"conversion-roast-api/pkg/featureflags"
)

func main() {
	// Load configuration: environment, then CONFIG_FILE overlay
	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logruslogger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Starting Conversion ROAST API", map[string]interface{}{
		"port":           cfg.Server.Port,
		"cache_type":     cfg.Cache.Type,
		"storage_type":   cfg.Storage.Type,
		"model_provider": cfg.Model.Provider,
	})

	flags := featureflags.NewEnvManager("FEATURE_")

	cache := newCache(cfg.Cache, logger)

	storage, err := newStorage(cfg.Storage)
	if err != nil {
		logger.Error("Failed to open roast storage", map[string]interface{}{
			"storage_type": cfg.Storage.Type,
			"error":        err.Error(),
		})
		log.Fatalf("Failed to open roast storage: %v", err)
	}
	defer storage.Close()

	// Outbound calls are logged without query strings
	httpClient := stdhttp.NewStandardHTTPClient(cfg.Pipeline.StageTimeout,
		stdhttp.WithTransport(&middleware.LoggingRoundTripper{Transport: http.DefaultTransport, Logger: logger}),
	)

	model, err := newModelClient(context.Background(), cfg.Model)
	if err != nil {
		// Generation fails with MissingCredentialError until a key is configured
		logger.Warn("Vision model not configured", map[string]interface{}{
			"provider": cfg.Model.Provider,
			"error":    err.Error(),
		})
	}

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
		Storage:    storage,
		Model:      model,
	}

	// Create services
	resolver := screenshot.NewResolver(deps, screenshot.Config{
		APIKey:    cfg.Screenshot.APIKey,
		Endpoint:  cfg.Screenshot.Endpoint,
		Dimension: cfg.Screenshot.Dimension,
		Device:    cfg.Screenshot.Device,
		FullPage:  cfg.Screenshot.FullPage,
		PublicURL: publicURL(cfg.Server),
	})
	generator := feedback.NewGenerator(deps, feedback.Config{
		MaxTokens:      cfg.Model.MaxTokens,
		CredentialName: cfg.Model.CredentialName(),
	})
	metadataService := services.NewPageMetadataService(deps, cfg.Pipeline.MetadataTimeout)
	heatmapGenerator := heatmap.NewGenerator(deps, heatmap.Config{
		APIToken:     cfg.Heatmap.APIToken,
		BaseURL:      cfg.Heatmap.BaseURL,
		ModelVersion: cfg.Heatmap.ModelVersion,
		PollInterval: cfg.Heatmap.PollInterval,
		MaxPolls:     cfg.Heatmap.MaxPolls,
	})

	roastService := roast.NewService(deps, roast.Stages{
		Screenshots: resolver,
		Feedback:    generator,
		Scores:      scoring.NewSynthesizer(scoring.NewRandomStrategy()),
		Metadata:    metadataService,
	}, flags, config.NewRoastConfig(
		config.WithRetry(cfg.Pipeline.MaxAttempts, cfg.Pipeline.Backoff),
		config.WithStageTimeout(cfg.Pipeline.StageTimeout),
		config.WithMetadataTimeout(cfg.Pipeline.MetadataTimeout),
	))

	// Create API with middleware
	ctx := context.Background()
	apiConfig := api.APIConfig{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        flags.IsEnabled(ctx, featureflags.MetricsEnabled),
	}
	if flags.IsEnabled(ctx, featureflags.RateLimitEnabled) {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		defer limiter.Stop()
		apiConfig.RateLimiter = limiter
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	// Create and register handlers
	handlers.NewRoastHandler(roastService, logger).RegisterRoutes(humaAPI)
	handlers.NewMediaHandler(resolver, heatmapGenerator, metadataService, flags, logger).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(handlers.HealthInfo{
		Cache:   cfg.Cache.Type,
		Storage: cfg.Storage.Type,
		Model:   modelName(model),
	}, flags).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// In-flight generations can take a while, give them the write timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

func modelName(model interfaces.ModelClient) string {
	if model == nil {
		return ""
	}
	return model.Name()
}

func init() {
	fmt.Println(`
   ____                            _
  / ___|___  _ ____   _____ _ __ __(_) ___  _ __
 | |   / _ \| '_ \ \ / / _ \ '__/ __| |/ _ \| '_ \
 | |__| (_) | | | \ V /  __/ |  \__ \ | (_) | | | |
  \____\___/|_| |_|\_/ \___|_|  |___/_|\___/|_| |_|
                 R O A S T   A P I
	`)
}

package main

import (
	"context"
	"fmt"

	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/infrastructure/cache/memory"
	"conversion-roast-api/infrastructure/cache/redis"
	"conversion-roast-api/infrastructure/llm/gemini"
	"conversion-roast-api/infrastructure/llm/openai"
	"conversion-roast-api/infrastructure/llm/stub"
	memorystore "conversion-roast-api/infrastructure/storage/memory"
	mongostore "conversion-roast-api/infrastructure/storage/mongo"
	sqlitestore "conversion-roast-api/infrastructure/storage/sqlite"
	appconfig "conversion-roast-api/pkg/config"
)

// newCache returns the configured cache, falling back to memory when Redis is unreachable
func newCache(cfg appconfig.CacheConfig, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCacheFromConfig(cfg.Memory)
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache
	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCacheFromConfig(cfg.Memory)
	}
}

// newStorage opens the roast store named by cfg.Type
func newStorage(cfg appconfig.StorageConfig) (interfaces.RoastStorage, error) {
	switch cfg.Type {
	case "sqlite":
		return sqlitestore.NewStore(cfg.SQLitePath)
	case "mongo":
		return mongostore.NewStore(cfg.Mongo)
	case "memory":
		return memorystore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// newModelClient creates the vision model client for the configured provider.
// The returned interface is nil whenever err is set.
func newModelClient(ctx context.Context, cfg appconfig.ModelConfig) (interfaces.ModelClient, error) {
	switch cfg.Provider {
	case "stub":
		return stub.NewClient(), nil
	case "gemini":
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Name,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai", "":
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Name,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// publicURL is the configured public URL, or the local listen address
func publicURL(cfg appconfig.ServerConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	return "http://localhost:" + cfg.Port
}

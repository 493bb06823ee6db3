// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: in-memory cache on patrickmn/go-cache
// - cache/redis: shared cache on go-redis
// - storage/sqlite, storage/mongo, storage/memory: roast record stores
// - llm/openai, llm/gemini, llm/stub: vision model clients
// - http/standard: outbound HTTP client
// - logger/logrus: structured logger with optional file rotation
//
// # Cache
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "image:"+shotURL, png, time.Hour)
//	data, err := cache.Get(ctx, "image:"+shotURL)
//
// # Storage
//
//	store, err := sqlite.NewStore("roasts.db")
//	err = store.Create(ctx, roast)
//	err = store.UpdateScreenshotURL(ctx, roast.ID, shotURL) // once only
//
// # Model clients
//
//	model, err := openai.NewClient(openai.Config{APIKey: key})
//	reply, err := model.Complete(ctx, interfaces.VisionRequest{
//	    SystemPrompt: system,
//	    UserPrompt:   user,
//	    Image:        png,
//	    MIMEType:     "image/png",
//	})
//
// # Logger
//
//	logger, err := logrus.New(config.LoggingConfig{Level: "info", Format: "json"})
//	logger.Info("Roast created", map[string]interface{}{"roast_id": id})
package infrastructure

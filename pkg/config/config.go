// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defaults, then an optional YAML file from CONFIG_FILE, then environment variables

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `yaml:"server"`

	// Cache contains cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Storage selects where roast records live
	Storage StorageConfig `yaml:"storage"`

	// Model configures the vision model provider
	Model ModelConfig `yaml:"model"`

	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Heatmap    HeatmapConfig    `yaml:"heatmap"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`

	// PublicURL is where clients reach this API, captured screenshots are served below it
	PublicURL string `yaml:"public_url"`

	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout must cover a synchronous generation, see PipelineConfig.WorstCase
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// AllowedOrigins is the CORS allow list
	AllowedOrigins []string `yaml:"allowed_origins"`

	// RateLimitRPS is the sustained per-IP request rate
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string `yaml:"type"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// Memory contains in-memory cache configuration
	Memory MemoryConfig `yaml:"memory"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int `yaml:"default_expiration"`

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int `yaml:"cleanup_interval"`
}

// StorageConfig holds roast persistence configuration
type StorageConfig struct {
	// Type is sqlite, mongo or memory
	Type string `yaml:"type"`

	// SQLitePath is the database file used by the sqlite backend
	SQLitePath string `yaml:"sqlite_path"`

	Mongo MongoConfig `yaml:"mongo"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// ModelConfig holds vision model settings
type ModelConfig struct {
	// Provider is openai, gemini or stub
	Provider string `yaml:"provider"`

	// Name is the provider model id, e.g. gpt-4o
	Name string `yaml:"name"`

	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

// CredentialName is the environment variable expected to hold the key
func (m ModelConfig) CredentialName() string {
	if m.Provider == "gemini" {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// ScreenshotConfig holds ScreenshotMachine settings
type ScreenshotConfig struct {
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	Dimension string `yaml:"dimension"`
	Device    string `yaml:"device"`
	FullPage  bool   `yaml:"full_page"`
}

// HeatmapConfig holds Replicate settings
type HeatmapConfig struct {
	APIToken     string        `yaml:"api_token"`
	BaseURL      string        `yaml:"base_url"`
	ModelVersion string        `yaml:"model_version"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxPolls     int           `yaml:"max_polls"`
}

// PipelineConfig holds retry and deadline settings of roast generation
type PipelineConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	Backoff         time.Duration `yaml:"backoff"`
	StageTimeout    time.Duration `yaml:"stage_timeout"`
	MetadataTimeout time.Duration `yaml:"metadata_timeout"`
}

// WorstCase is the longest a generation can run: every attempt spends a full
// stage deadline on the screenshot and on the model, with a backoff between
// attempts. Zero means unbounded.
func (p PipelineConfig) WorstCase() time.Duration {
	if p.StageTimeout <= 0 || p.MaxAttempts < 1 {
		return 0
	}
	attempts := time.Duration(p.MaxAttempts)
	return attempts*2*p.StageTimeout + (attempts-1)*p.Backoff
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`

	// Format is json or text
	Format string `yaml:"format"`

	// File enables rotating file output when set
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   7 * time.Minute,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimitRPS:   2,
			RateLimitBurst: 10,
		},
		Cache: CacheConfig{
			Type: "memory",
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
			Memory: MemoryConfig{
				DefaultExpiration: 3600,
				CleanupInterval:   600,
			},
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: "roasts.db",
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "conversion_roast",
				Collection: "roasts",
			},
		},
		Model: ModelConfig{
			// An empty Name uses the provider's default model
			Provider:  "openai",
			MaxTokens: 2500,
		},
		Screenshot: ScreenshotConfig{
			Endpoint:  "https://api.screenshotmachine.com/",
			Dimension: "1024x768",
			Device:    "desktop",
		},
		Heatmap: HeatmapConfig{
			BaseURL:      "https://api.replicate.com/v1",
			PollInterval: 2 * time.Second,
			MaxPolls:     30,
		},
		Pipeline: PipelineConfig{
			MaxAttempts:     3,
			Backoff:         3 * time.Second,
			StageTimeout:    60 * time.Second,
			MetadataTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load builds the configuration from defaults, the CONFIG_FILE overlay and the environment
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// loadFile overlays the YAML file onto cfg. Keys absent from the file keep their value.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvAsDurationOrDefault("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.PublicURL = getEnvOrDefault("PUBLIC_URL", c.Server.PublicURL)
	c.Server.WriteTimeout = getEnvAsDurationOrDefault("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvAsDurationOrDefault("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.AllowedOrigins = getEnvAsListOrDefault("ALLOWED_ORIGINS", c.Server.AllowedOrigins)
	c.Server.RateLimitRPS = getEnvAsFloatOrDefault("RATE_LIMIT_RPS", c.Server.RateLimitRPS)
	c.Server.RateLimitBurst = getEnvAsIntOrDefault("RATE_LIMIT_BURST", c.Server.RateLimitBurst)

	c.Cache.Type = getEnvOrDefault("CACHE_TYPE", c.Cache.Type)
	c.Cache.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", c.Cache.Redis.Address)
	c.Cache.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", c.Cache.Redis.DB)
	c.Cache.Memory.DefaultExpiration = getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", c.Cache.Memory.DefaultExpiration)
	c.Cache.Memory.CleanupInterval = getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP", c.Cache.Memory.CleanupInterval)

	c.Storage.Type = getEnvOrDefault("STORAGE_TYPE", c.Storage.Type)
	c.Storage.SQLitePath = getEnvOrDefault("SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.Mongo.URI = getEnvOrDefault("MONGO_URI", c.Storage.Mongo.URI)
	c.Storage.Mongo.Database = getEnvOrDefault("MONGO_DATABASE", c.Storage.Mongo.Database)
	c.Storage.Mongo.Collection = getEnvOrDefault("MONGO_COLLECTION", c.Storage.Mongo.Collection)

	c.Model.Provider = strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", c.Model.Provider))
	c.Model.Name = getEnvOrDefault("MODEL_NAME", c.Model.Name)
	c.Model.BaseURL = getEnvOrDefault("MODEL_BASE_URL", c.Model.BaseURL)
	c.Model.MaxTokens = getEnvAsIntOrDefault("MODEL_MAX_TOKENS", c.Model.MaxTokens)
	c.Model.APIKey = getEnvOrDefault(c.Model.CredentialName(), c.Model.APIKey)

	c.Screenshot.APIKey = getEnvOrDefault("SCREENSHOT_API_KEY", c.Screenshot.APIKey)
	c.Screenshot.Endpoint = getEnvOrDefault("SCREENSHOT_ENDPOINT", c.Screenshot.Endpoint)
	c.Screenshot.Dimension = getEnvOrDefault("SCREENSHOT_DIMENSION", c.Screenshot.Dimension)
	c.Screenshot.Device = getEnvOrDefault("SCREENSHOT_DEVICE", c.Screenshot.Device)
	c.Screenshot.FullPage = getEnvAsBoolOrDefault("SCREENSHOT_FULL_PAGE", c.Screenshot.FullPage)

	c.Heatmap.APIToken = getEnvOrDefault("REPLICATE_API_TOKEN", c.Heatmap.APIToken)
	c.Heatmap.BaseURL = getEnvOrDefault("REPLICATE_BASE_URL", c.Heatmap.BaseURL)
	c.Heatmap.ModelVersion = getEnvOrDefault("HEATMAP_MODEL_VERSION", c.Heatmap.ModelVersion)
	c.Heatmap.PollInterval = getEnvAsDurationOrDefault("HEATMAP_POLL_INTERVAL", c.Heatmap.PollInterval)
	c.Heatmap.MaxPolls = getEnvAsIntOrDefault("HEATMAP_MAX_POLLS", c.Heatmap.MaxPolls)

	c.Pipeline.MaxAttempts = getEnvAsIntOrDefault("MAX_ATTEMPTS", c.Pipeline.MaxAttempts)
	c.Pipeline.Backoff = getEnvAsDurationOrDefault("RETRY_BACKOFF", c.Pipeline.Backoff)
	c.Pipeline.StageTimeout = getEnvAsDurationOrDefault("STAGE_TIMEOUT", c.Pipeline.StageTimeout)
	c.Pipeline.MetadataTimeout = getEnvAsDurationOrDefault("METADATA_TIMEOUT", c.Pipeline.MetadataTimeout)

	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", c.Logging.Level))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", c.Logging.Format))
	c.Logging.File = getEnvOrDefault("LOG_FILE", c.Logging.File)
	c.Logging.MaxSizeMB = getEnvAsIntOrDefault("LOG_MAX_SIZE_MB", c.Logging.MaxSizeMB)
	c.Logging.MaxBackups = getEnvAsIntOrDefault("LOG_MAX_BACKUPS", c.Logging.MaxBackups)
	c.Logging.MaxAgeDays = getEnvAsIntOrDefault("LOG_MAX_AGE_DAYS", c.Logging.MaxAgeDays)
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or whole seconds ("90")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("sqlite path cannot be empty when using sqlite storage")
		}
	case "mongo":
		if c.Storage.Mongo.URI == "" || c.Storage.Mongo.Database == "" {
			return errors.New("mongo uri and database are required when using mongo storage")
		}
	case "memory":
	default:
		return errors.New("storage type must be 'sqlite', 'mongo' or 'memory'")
	}

	switch c.Model.Provider {
	case "openai", "gemini", "stub":
	default:
		return errors.New("model provider must be 'openai', 'gemini' or 'stub'")
	}

	if c.Pipeline.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}

	if c.Pipeline.Backoff < 0 || c.Pipeline.StageTimeout < 0 {
		return errors.New("pipeline durations cannot be negative")
	}

	if worst := c.Pipeline.WorstCase(); c.Server.WriteTimeout > 0 && (worst == 0 || c.Server.WriteTimeout <= worst) {
		return fmt.Errorf("write timeout %s must exceed the pipeline worst case %s", c.Server.WriteTimeout, worst)
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New("rate limit values cannot be negative")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return errors.New("log format must be 'json' or 'text'")
	}

	return nil
}

// ABOUTME: Default implementations for library dependencies
// ABOUTME: Provides factory functions for caches, storage, loggers and the offline model

package roastlib

import (
	"io"
	"os"
	"time"

	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/infrastructure/cache/memory"
	httpInfra "conversion-roast-api/infrastructure/http/standard"
	"conversion-roast-api/infrastructure/llm/stub"
	loggerInfra "conversion-roast-api/infrastructure/logger/logrus"
	memstore "conversion-roast-api/infrastructure/storage/memory"
	"conversion-roast-api/infrastructure/storage/sqlite"
	"conversion-roast-api/pkg/config"
)

// DefaultHTTPClient creates a default HTTP client with the pipeline stage timeout
func DefaultHTTPClient() interfaces.HTTPClient {
	return httpInfra.NewStandardHTTPClient(60 * time.Second)
}

// DefaultMemoryCache creates a default in-memory cache
func DefaultMemoryCache() interfaces.Cache {
	return memory.NewMemoryCache()
}

// DefaultSQLiteStorage opens roast storage in the given SQLite file
func DefaultSQLiteStorage(filePath string) (interfaces.RoastStorage, error) {
	return sqlite.NewStore(filePath)
}

// DefaultLogger creates a text logger that writes to stdout
func DefaultLogger() interfaces.Logger {
	return newLogger(os.Stdout)
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return newLogger(io.Discard)
}

func newLogger(w io.Writer) interfaces.Logger {
	// Only a bad level fails and this one is fixed
	l, _ := loggerInfra.NewWithWriter(w, config.LoggingConfig{Level: "info", Format: "text"})
	return l
}

// StorageType represents the kind of roast storage
type StorageType string

const (
	StorageTypeMemory StorageType = "memory"
	StorageTypeSQLite StorageType = "sqlite"
)

// StorageOption represents storage configuration options
type StorageOption struct {
	Type     StorageType
	FilePath string // For SQLite storage
}

// WithStorageOption creates roast storage based on the provided options
func WithStorageOption(opt StorageOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case StorageTypeMemory:
			c.Storage = memstore.NewStore()
		case StorageTypeSQLite:
			if opt.FilePath == "" {
				opt.FilePath = "roasts.db"
			}
			storage, err := DefaultSQLiteStorage(opt.FilePath)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to open roast storage").WithCause(err)
			}
			c.Storage = storage
		default:
			return NewError(ErrorTypeConfiguration, "invalid storage type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// WithStubModel uses the offline model that returns a canned critique
func WithStubModel() Option {
	return func(c *Config) error {
		c.Model = stub.NewClient()
		return nil
	}
}

// WithDefaultDependencies fills any unset dependency with its default
func WithDefaultDependencies() Option {
	return func(c *Config) error {
		if c.HTTPClient == nil {
			c.HTTPClient = DefaultHTTPClient()
		}
		if c.Cache == nil {
			c.Cache = DefaultMemoryCache()
		}
		if c.Logger == nil {
			c.Logger = DefaultLogger()
		}
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = QuietLogger()
		return nil
	}
}

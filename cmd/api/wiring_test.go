package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conversion-roast-api/core/errors"
	appconfig "conversion-roast-api/pkg/config"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func TestNewModelClient_MissingKeyIsNilInterface(t *testing.T) {
	for _, provider := range []string{"openai", "gemini"} {
		t.Run(provider, func(t *testing.T) {
			client, err := newModelClient(context.Background(), appconfig.ModelConfig{Provider: provider})

			require.Error(t, err)
			assert.True(t, errors.IsMissingCredential(err))
			assert.Nil(t, client, "a typed nil would bypass the missing credential check")
		})
	}
}

func TestNewModelClient_Stub(t *testing.T) {
	client, err := newModelClient(context.Background(), appconfig.ModelConfig{Provider: "stub"})

	require.NoError(t, err)
	assert.Equal(t, "stub", client.Name())
}

func TestNewModelClient_UnknownProvider(t *testing.T) {
	_, err := newModelClient(context.Background(), appconfig.ModelConfig{Provider: "claude"})

	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	store, err := newStorage(appconfig.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	store, err = newStorage(appconfig.StorageConfig{Type: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = newStorage(appconfig.StorageConfig{Type: "postgres"})
	assert.Error(t, err)
}

func TestNewCache_RedisFallsBackToMemory(t *testing.T) {
	cache := newCache(appconfig.CacheConfig{
		Type:  "redis",
		Redis: appconfig.RedisConfig{Address: "127.0.0.1:1"},
	}, nopLogger{})

	require.NotNil(t, cache)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000", publicURL(appconfig.ServerConfig{Port: "8000"}))
	assert.Equal(t, "https://roast.example.com", publicURL(appconfig.ServerConfig{Port: "8000", PublicURL: "https://roast.example.com"}))
}

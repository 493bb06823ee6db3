package featureflags

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvManager_Defaults(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, OutputFallback), "fallback is on unless disabled")
	assert.False(t, manager.IsEnabled(ctx, FeedbackCache), "feedback cache is opt-in")
	assert.True(t, manager.IsEnabled(ctx, PageMetadata))
}

func TestEnvManager_EnvDisablesDefault(t *testing.T) {
	os.Setenv("TEST_FEATURE_OUTPUT_FALLBACK", "false")
	defer os.Unsetenv("TEST_FEATURE_OUTPUT_FALLBACK")

	manager := NewEnvManager("TEST_FEATURE_")
	assert.False(t, manager.IsEnabled(context.Background(), OutputFallback))
}

func TestEnvManager_EnabledWhenFlagSet(t *testing.T) {
	os.Setenv("TEST_FEATURE_FEEDBACK_CACHE", "true")
	defer os.Unsetenv("TEST_FEATURE_FEEDBACK_CACHE")

	manager := NewEnvManager("TEST_FEATURE_")
	assert.True(t, manager.IsEnabled(context.Background(), FeedbackCache))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"empty", "", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_FLAG", tt.value)
			defer os.Unsetenv("TEST_FLAG")

			manager := NewEnvManager("TEST_")
			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	os.Setenv("TEST_FEATURE_HEATMAP_ENABLED", "true")
	defer os.Unsetenv("TEST_FEATURE_HEATMAP_ENABLED")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, HeatmapEnabled))

	manager.SetEnabled(HeatmapEnabled, false)
	assert.False(t, manager.IsEnabled(ctx, HeatmapEnabled))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	manager := NewEnvManager("TEST_ALL_")
	manager.SetEnabled(FeedbackCache, true)

	flags := manager.GetAllFlags()

	assert.Len(t, flags, len(AllFlags))
	assert.True(t, flags[FeedbackCache])
	assert.True(t, flags[OutputFallback])
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		OutputFallback: true,
	})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, OutputFallback))
	assert.False(t, manager.IsEnabled(ctx, HeatmapEnabled))

	manager.SetEnabled(HeatmapEnabled, true)
	assert.True(t, manager.IsEnabledForUser(ctx, HeatmapEnabled, "user-1"))

	all := manager.GetAllFlags()
	assert.Len(t, all, 2)
}

func TestContextManager(t *testing.T) {
	ctx := context.Background()

	assert.False(t, IsEnabled(ctx, OutputFallback), "no manager in context disables everything")

	manager := NewStaticManager(map[FeatureFlag]bool{OutputFallback: true})
	ctx = WithManager(ctx, manager)

	assert.True(t, IsEnabled(ctx, OutputFallback))
	assert.Same(t, manager, FromContext(ctx))
}

func TestNewDefaultManager(t *testing.T) {
	m := NewDefaultManager()
	ctx := context.Background()

	for _, flag := range AllFlags {
		if got := m.IsEnabled(ctx, flag); got != Defaults[flag] {
			t.Errorf("%s = %v, want default %v", flag, got, Defaults[flag])
		}
	}

	// Overrides do not leak into Defaults
	m.SetEnabled(OutputFallback, false)
	if !Defaults[OutputFallback] {
		t.Error("SetEnabled modified the package defaults")
	}
}

package provider_test

import (
	"testing"
	"time"

	"github.com/ferndale-io/textgate/internal/config"
	"github.com/ferndale-io/textgate/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Anthropic(t *testing.T) {
	cfg := config.AIConfig{
		Provider: "anthropic",
		Anthropic: config.AnthropicConfig{
			APIKey:  "sk-ant-test",
			BaseURL: "https://api.anthropic.com",
			Timeout: 5 * time.Minute,
		},
	}
	p, err := provider.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
	assert.True(t, p.Supports("claude-3-5-sonnet-latest"))
}

func TestNew_Mock(t *testing.T) {
	cfg := config.AIConfig{Provider: "mock"}
	p, err := provider.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestNew_Unknown(t *testing.T) {
	cfg := config.AIConfig{Provider: "watson"}
	_, err := provider.New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AI provider")
	assert.Contains(t, err.Error(), "watson")
}

func TestNew_Empty(t *testing.T) {
	_, err := provider.New(config.AIConfig{})
	require.Error(t, err)
}

// Package provider selects and orchestrates text-generation providers.
package provider

import (
	"fmt"

	"github.com/ferndale-io/textgate/internal/config"
	"github.com/ferndale-io/textgate/internal/provider/anthropic"
	"github.com/ferndale-io/textgate/internal/provider/mock"
	"github.com/ferndale-io/textgate/pkg/models"
)

// New constructs the appropriate text provider based on config.
// Called once at server startup.
func New(cfg config.AIConfig) (models.TextProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of anthropic, mock", cfg.Provider)
	}
}

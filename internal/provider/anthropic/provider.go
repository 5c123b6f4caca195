// Package anthropic implements the Anthropic Claude provider: a model
// registry populated by discovery with graceful fallback, and per-model
// text-generation handles over the Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/ferndale-io/textgate/internal/config"
	"github.com/ferndale-io/textgate/pkg/models"
)

// Provider implements models.TextProvider against the Anthropic API.
//
// Construction seeds the registry synchronously from the known-model list, so
// the provider is usable offline immediately. Start kicks one background
// discovery; early Supports/Generator callers see the seeded set until it
// completes. Refresh re-runs discovery synchronously.
type Provider struct {
	cfg      config.AnthropicConfig
	client   *Client // nil when no API key was supplied
	registry *Registry
}

// NewProvider creates the provider. Without an API key the registry stays
// empty and every generation attempt fails with ErrNotConfigured.
func NewProvider(cfg config.AnthropicConfig) *Provider {
	p := &Provider{
		cfg:      cfg,
		registry: NewRegistry(),
	}
	if cfg.APIKey != "" {
		p.client = NewClient(cfg)
		p.registry.SeedKnown()
	}
	return p
}

func (p *Provider) Name() string { return "anthropic" }

// Capabilities enumerates the capability tags this provider serves.
func (p *Provider) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityTextGeneration}
}

// ModelsFor lists registered descriptors carrying the given tag.
func (p *Provider) ModelsFor(c models.Capability) []models.ModelInfo {
	return p.registry.ForCapability(c)
}

// Supports reports whether the model id is currently in the registry.
func (p *Provider) Supports(modelID string) bool {
	return p.registry.Supports(modelID)
}

// Generator creates a generation handle bound to the model id. The registry
// check happens here, before any network I/O ever does.
func (p *Provider) Generator(modelID string) (models.Generator, error) {
	if p.client == nil {
		return nil, models.ErrNotConfigured
	}
	info, ok := p.registry.Get(modelID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedModel, modelID)
	}
	return &generator{client: p.client, info: info}, nil
}

// Available probes the listing endpoint. Any failure reads as false.
func (p *Provider) Available(ctx context.Context) bool {
	if p.client == nil {
		return false
	}
	return p.client.Ping(ctx) == nil
}

// Start triggers one background model discovery. Callers must tolerate the
// registry briefly holding only the seeded known-model set.
func (p *Provider) Start(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	go p.registry.Discover(context.WithoutCancel(ctx), p.client)
	return nil
}

// Stop is a no-op: a remote-API provider has no local process to manage.
func (p *Provider) Stop(_ context.Context) error { return nil }

// Refresh performs an awaited re-discovery, falling back to the minimal known
// list on failure. It never returns an error.
func (p *Provider) Refresh(ctx context.Context) {
	if p.client == nil {
		return
	}
	p.registry.Discover(ctx, p.client)
}

// RegistryState exposes the registry population state for observability.
func (p *Provider) RegistryState() State { return p.registry.State() }

// generator is the per-model handle. It holds no mutable state.
type generator struct {
	client *Client
	info   models.ModelInfo
}

func (g *generator) Model() models.ModelInfo { return g.info }

// Generate builds one chat request (optional leading system message, then the
// user prompt), performs one blocking round trip, and concatenates the
// returned content segments in response order with no separator.
func (g *generator) Generate(ctx context.Context, prompt string, opts models.GenerateOptions) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	msgs := make([]message, 0, 2)
	if opts.System != "" {
		msgs = append(msgs, message{Role: "system", Content: opts.System})
	}
	msgs = append(msgs, message{Role: "user", Content: prompt})

	resp, err := g.client.CreateMessage(ctx, messageRequest{
		Model:         g.info.ID,
		MaxTokens:     maxTokens,
		Messages:      msgs,
		Temperature:   opts.Temperature,
		TopP:          opts.TopP,
		StopSequences: opts.StopSequences,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: model %q returned no content segments", models.ErrEmptyResponse, g.info.ID)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		text.WriteString(block.Text)
	}
	return text.String(), nil
}

var _ models.TextProvider = (*Provider)(nil)

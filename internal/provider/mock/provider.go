package mock

import (
	"context"
	"sync/atomic"

	"github.com/ferndale-io/textgate/pkg/models"
)

// MockProvider satisfies models.TextProvider for testing and local
// development. Every behavior can be overridden through a func field;
// GenerateCalls counts how many generation round trips were attempted.
type MockProvider struct {
	Name_         string
	Models_       []models.ModelInfo
	GenerateFunc  func(ctx context.Context, modelID, prompt string, opts models.GenerateOptions) (string, error)
	AvailableFunc func(ctx context.Context) bool
	GenerateCalls atomic.Int64
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityTextGeneration}
}

func (m *MockProvider) ModelsFor(c models.Capability) []models.ModelInfo {
	out := []models.ModelInfo{}
	for _, info := range m.Models_ {
		if info.HasCapability(c) {
			out = append(out, info)
		}
	}
	return out
}

func (m *MockProvider) Supports(modelID string) bool {
	for _, info := range m.Models_ {
		if info.ID == modelID {
			return true
		}
	}
	return false
}

func (m *MockProvider) Generator(modelID string) (models.Generator, error) {
	for _, info := range m.Models_ {
		if info.ID == modelID {
			return &mockGenerator{provider: m, info: info}, nil
		}
	}
	return nil, models.ErrUnsupportedModel
}

func (m *MockProvider) Available(ctx context.Context) bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc(ctx)
	}
	return true
}

func (m *MockProvider) Start(_ context.Context) error { return nil }
func (m *MockProvider) Stop(_ context.Context) error  { return nil }

type mockGenerator struct {
	provider *MockProvider
	info     models.ModelInfo
}

func (g *mockGenerator) Model() models.ModelInfo { return g.info }

func (g *mockGenerator) Generate(ctx context.Context, prompt string, opts models.GenerateOptions) (string, error) {
	g.provider.GenerateCalls.Add(1)
	if g.provider.GenerateFunc != nil {
		return g.provider.GenerateFunc(ctx, g.info.ID, prompt, opts)
	}
	return "mock generation for: " + prompt, nil
}

// NewProvider returns a MockProvider with one text model and canned responses.
func NewProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		Models_: []models.ModelInfo{
			{
				ID:           "mock-v1",
				DisplayName:  "Mock V1",
				Capabilities: []models.Capability{models.CapabilityTextGeneration},
			},
		},
	}
}

// NewFailingProvider returns a MockProvider whose generations always return
// the given error.
func NewFailingProvider(err error) *MockProvider {
	p := NewProvider()
	p.Name_ = "mock-failing"
	p.GenerateFunc = func(_ context.Context, _, _ string, _ models.GenerateOptions) (string, error) {
		return "", err
	}
	return p
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	p := NewProvider()
	p.Name_ = "mock-timeout"
	p.GenerateFunc = func(ctx context.Context, _, _ string, _ models.GenerateOptions) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p
}

// Compile-time check that MockProvider implements TextProvider.
var _ models.TextProvider = (*MockProvider)(nil)

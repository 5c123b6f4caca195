// Package models contains shared data models used across the textgate codebase.
package models

import "context"

// Capability classifies what a model can do. The Anthropic provider only
// advertises text generation today; the enum exists so the host can route
// other media capabilities to other providers later.
type Capability string

const (
	CapabilityTextGeneration Capability = "text-generation"
)

// ParamSpec describes one tunable generation parameter advertised by a model.
type ParamSpec struct {
	Type    string  `json:"type"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// ModelInfo is the immutable descriptor for one remote model. Descriptors are
// created during discovery (or known-list seeding) and replaced wholesale on
// re-discovery, never mutated in place.
type ModelInfo struct {
	ID           string               `json:"id"`
	DisplayName  string               `json:"display_name"`
	Description  string               `json:"description,omitempty"`
	Capabilities []Capability         `json:"capabilities"`
	Params       map[string]ParamSpec `json:"params,omitempty"`
}

// HasCapability reports whether the descriptor carries the given tag.
func (m ModelInfo) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// GenerateOptions are the optional knobs for a single generation call.
// Nil pointer fields are omitted from the upstream request entirely.
type GenerateOptions struct {
	System        string
	Temperature   *float64
	TopP          *float64
	MaxTokens     int
	StopSequences []string
}

// Generator is a per-model text-generation handle. Handles are cheap,
// stateless, and safe for concurrent use.
type Generator interface {
	// Generate performs one blocking round trip and returns the concatenated
	// text of all content segments the model produced.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	// Model returns the descriptor the handle is bound to.
	Model() ModelInfo
}

// TextProvider is the contract the hosting system loads providers through.
// Callers hold this interface, never a concrete provider type.
type TextProvider interface {
	// Name returns the provider identifier (e.g., "anthropic").
	Name() string
	// Capabilities enumerates every capability tag the provider serves.
	Capabilities() []Capability
	// ModelsFor lists descriptors carrying the given tag. Unrecognized tags
	// yield an empty slice, not an error.
	ModelsFor(c Capability) []ModelInfo
	// Supports reports whether the model id is currently usable.
	Supports(modelID string) bool
	// Generator creates a generation handle bound to the model id.
	Generator(modelID string) (Generator, error)
	// Available probes upstream reachability. Failures of any kind are
	// reported as false, never as an error.
	Available(ctx context.Context) bool
	// Start begins any background work the provider needs (model discovery).
	Start(ctx context.Context) error
	// Stop releases provider resources. Remote-API providers have none.
	Stop(ctx context.Context) error
}

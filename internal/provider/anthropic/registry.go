package anthropic

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/ferndale-io/textgate/pkg/models"
)

// State tracks how the registry was last populated.
type State string

const (
	// StateSeeded means the registry holds the hardcoded known-model list.
	StateSeeded State = "seeded"
	// StateDiscovered means the last population came from a discovery attempt
	// (live listing on success, fallback list on failure).
	StateDiscovered State = "discovered"
)

// modelLister is the slice of the API client the registry needs. Tests stub it.
type modelLister interface {
	ListModels(ctx context.Context) ([]modelEntry, error)
}

// Registry owns the set of usable model identifiers and their advertised
// parameter schema. The map is only ever replaced wholesale; the lock makes
// that replacement safe against concurrent lookups while background discovery
// is in flight.
type Registry struct {
	mu     sync.RWMutex
	models map[string]models.ModelInfo
	state  State
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: map[string]models.ModelInfo{}}
}

// SeedKnown populates the registry synchronously from the full known-model
// list. No network access, no failure mode.
func (r *Registry) SeedKnown() {
	set := make(map[string]models.ModelInfo, len(knownModelIDs))
	for _, id := range knownModelIDs {
		set[id] = descriptorFor(id, "")
	}
	r.replace(set, StateSeeded)
}

// Discover attempts one network call to list models and replaces the registry
// contents with the result. On any failure, or on an empty listing, the
// registry falls back to the minimal known-stable list instead. Discover
// never returns an error: degraded model coverage beats an unusable provider.
func (r *Registry) Discover(ctx context.Context, lister modelLister) {
	entries, err := lister.ListModels(ctx)
	if err != nil || len(entries) == 0 {
		if err != nil {
			slog.Warn("model discovery failed, using fallback list", "error", err)
		} else {
			slog.Warn("model discovery returned no models, using fallback list")
		}
		set := make(map[string]models.ModelInfo, len(fallbackModelIDs))
		for _, id := range fallbackModelIDs {
			set[id] = descriptorFor(id, "")
		}
		r.replace(set, StateDiscovered)
		return
	}

	set := make(map[string]models.ModelInfo, len(entries))
	for _, e := range entries {
		set[e.ID] = descriptorFor(e.ID, e.DisplayName)
	}
	r.replace(set, StateDiscovered)
	slog.Info("model discovery complete", "models", len(set))
}

// Supports reports whether the identifier is currently present. O(1).
func (r *Registry) Supports(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.models[id]
	return ok
}

// Get returns the descriptor for an identifier, if present.
func (r *Registry) Get(id string) (models.ModelInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	return m, ok
}

// ForCapability returns all descriptors carrying the requested tag, sorted by
// id. Unrecognized capability values yield an empty slice.
func (r *Registry) ForCapability(c models.Capability) []models.ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.ModelInfo{}
	for _, m := range r.models {
		if m.HasCapability(c) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// State returns how the registry was last populated.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

func (r *Registry) replace(set map[string]models.ModelInfo, s State) {
	r.mu.Lock()
	r.models = set
	r.state = s
	r.mu.Unlock()
}

package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ferndale-io/textgate/internal/cache"
	"github.com/ferndale-io/textgate/internal/store"
	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/google/uuid"
)

// resultTTL is how long identical generation requests are memoized.
const resultTTL = 5 * time.Minute

// GenerateParams holds validated parameters for one generation request.
type GenerateParams struct {
	KeyID   uuid.UUID
	Model   string
	Prompt  string
	Options models.GenerateOptions
}

// GenerateResult is the output of a generation operation.
type GenerateResult struct {
	Text       string
	Provider   string
	Model      string
	Cached     bool
	DurationMS int64
}

// GenerationService orchestrates provider calls: cache lookup, the blocking
// provider round trip under a timeout, the usage-audit row, and cache fill.
type GenerationService struct {
	provider models.TextProvider
	store    store.Store
	cache    cache.Cache
	timeout  time.Duration
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(p models.TextProvider, st store.Store, ca cache.Cache, timeout time.Duration) *GenerationService {
	return &GenerationService{
		provider: p,
		store:    st,
		cache:    ca,
		timeout:  timeout,
	}
}

// Generate runs one text generation. Identical requests within the TTL are
// served from cache without touching the provider or the audit log.
func (s *GenerationService) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	key := cache.GenerationKey(requestHash(params))
	if text, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return &GenerateResult{
			Text:     string(text),
			Provider: s.provider.Name(),
			Model:    params.Model,
			Cached:   true,
		}, nil
	}

	gen, err := s.provider.Generator(params.Model)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := gen.Generate(genCtx, params.Prompt, params.Options)
	elapsed := time.Since(start)

	s.record(ctx, params, text, elapsed, err)

	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.Set(ctx, key, []byte(text), resultTTL); cacheErr != nil {
		slog.Warn("caching generation result failed", "error", cacheErr)
	}

	return &GenerateResult{
		Text:       text,
		Provider:   s.provider.Name(),
		Model:      params.Model,
		DurationMS: elapsed.Milliseconds(),
	}, nil
}

// record writes the usage-audit row. Audit failures are logged, never
// surfaced: they must not fail an otherwise successful generation.
func (s *GenerationService) record(ctx context.Context, params GenerateParams, text string, elapsed time.Duration, genErr error) {
	g := &models.Generation{
		ID:          uuid.New(),
		KeyID:       params.KeyID,
		Provider:    s.provider.Name(),
		Model:       params.Model,
		Status:      models.GenerationStatusCompleted,
		PromptChars: len(params.Prompt),
		OutputChars: len(text),
		DurationMS:  elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if genErr != nil {
		msg := genErr.Error()
		g.Status = models.GenerationStatusFailed
		g.ErrorMessage = &msg
	}
	if err := s.store.CreateGeneration(ctx, g); err != nil {
		slog.Warn("recording generation failed", "error", err, "model", params.Model)
	}
}

// requestHash identifies a generation request by its full upstream-visible
// content. The caller's key id is deliberately excluded so identical requests
// share cache entries.
func requestHash(params GenerateParams) string {
	payload, _ := json.Marshal(struct {
		Model  string                 `json:"model"`
		Prompt string                 `json:"prompt"`
		Opts   models.GenerateOptions `json:"opts"`
	}{params.Model, params.Prompt, params.Options})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

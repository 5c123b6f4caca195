package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	mw "github.com/ferndale-io/textgate/internal/api/middleware"
	"github.com/ferndale-io/textgate/internal/api/response"
	"github.com/ferndale-io/textgate/internal/provider"
	"github.com/ferndale-io/textgate/pkg/models"
)

const maxPromptBytes = 1 << 20 // 1 MiB

// TextGenerator defines the interface the generate handler depends on.
type TextGenerator interface {
	Generate(ctx context.Context, params provider.GenerateParams) (*provider.GenerateResult, error)
}

// NewGenerateHandler returns an http.HandlerFunc for POST /api/v1/generate.
func NewGenerateHandler(svc TextGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyID, ok := mw.GetKeyID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing API key", nil)
			return
		}

		var req struct {
			Model         string   `json:"model"`
			Prompt        string   `json:"prompt"`
			System        string   `json:"system"`
			Temperature   *float64 `json:"temperature"`
			TopP          *float64 `json:"top_p"`
			MaxTokens     int      `json:"max_tokens"`
			StopSequences []string `json:"stop_sequences"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBytes)).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.Model == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "model is required", nil)
			return
		}
		if req.Prompt == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "prompt is required", nil)
			return
		}
		if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 1) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"temperature must be between 0.0 and 1.0", nil)
			return
		}
		if req.TopP != nil && (*req.TopP < 0 || *req.TopP > 1) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"top_p must be between 0.0 and 1.0", nil)
			return
		}
		if req.MaxTokens < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"max_tokens must be positive", nil)
			return
		}

		result, err := svc.Generate(r.Context(), provider.GenerateParams{
			KeyID:  keyID,
			Model:  req.Model,
			Prompt: req.Prompt,
			Options: models.GenerateOptions{
				System:        req.System,
				Temperature:   req.Temperature,
				TopP:          req.TopP,
				MaxTokens:     req.MaxTokens,
				StopSequences: req.StopSequences,
			},
		})
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUnsupportedModel):
				response.Error(w, http.StatusBadRequest, "UNSUPPORTED_MODEL",
					"The requested model is not supported by this provider", nil)
			case errors.Is(err, models.ErrNotConfigured):
				response.Error(w, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED",
					"The AI provider is not configured", nil)
			case errors.Is(err, models.ErrEmptyResponse):
				response.Error(w, http.StatusBadGateway, "EMPTY_RESPONSE",
					"The model returned no text", nil)
			case errors.Is(err, context.DeadlineExceeded):
				response.Error(w, http.StatusGatewayTimeout, "GENERATION_TIMEOUT",
					"Text generation took too long and was cancelled", nil)
			case errors.Is(err, models.ErrUpstream):
				response.Error(w, http.StatusBadGateway, "UPSTREAM_ERROR",
					"The AI provider returned an error", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, generateResponse{
			Text:       result.Text,
			Provider:   result.Provider,
			Model:      result.Model,
			Cached:     result.Cached,
			DurationMS: result.DurationMS,
		})
	}
}

type generateResponse struct {
	Text       string `json:"text"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Cached     bool   `json:"cached"`
	DurationMS int64  `json:"duration_ms"`
}

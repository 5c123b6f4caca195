package handler

import (
	"net/http"

	"github.com/ferndale-io/textgate/internal/api/response"
	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/go-chi/chi/v5"
)

// NewListModelsHandler returns an http.HandlerFunc for GET /api/v1/models.
// An optional ?capability= query narrows the listing; it defaults to
// text generation.
func NewListModelsHandler(p models.TextProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		capability := models.CapabilityTextGeneration
		if q := r.URL.Query().Get("capability"); q != "" {
			capability = models.Capability(q)
		}

		infos := p.ModelsFor(capability)
		response.JSON(w, modelListResponse{
			Provider: p.Name(),
			Models:   infos,
		})
	}
}

// NewGetModelHandler returns an http.HandlerFunc for GET /api/v1/models/{modelID}.
func NewGetModelHandler(p models.TextProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modelID := chi.URLParam(r, "modelID")

		for _, info := range p.ModelsFor(models.CapabilityTextGeneration) {
			if info.ID == modelID {
				response.JSON(w, info)
				return
			}
		}
		response.Error(w, http.StatusNotFound, "MODEL_NOT_FOUND",
			"No such model is currently registered", nil)
	}
}

type modelListResponse struct {
	Provider string             `json:"provider"`
	Models   []models.ModelInfo `json:"models"`
}

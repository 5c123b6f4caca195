package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ferndale-io/textgate/internal/api/response"
	"github.com/ferndale-io/textgate/internal/store"
	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/google/uuid"
)

// NewListGenerationsHandler returns an http.HandlerFunc for
// GET /api/v1/admin/generations, the usage-audit listing.
func NewListGenerationsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := store.GenerationFilter{
			Model:  q.Get("model"),
			Status: q.Get("status"),
		}
		if raw := q.Get("key_id"); raw != "" {
			keyID, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"key_id must be a valid UUID", nil)
				return
			}
			filter.KeyID = keyID
		}
		if raw := q.Get("since"); raw != "" {
			since, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = since
		}
		filter.Page, _ = strconv.Atoi(q.Get("page"))
		filter.Limit, _ = strconv.Atoi(q.Get("limit"))
		if filter.Page <= 0 {
			filter.Page = 1
		}
		if filter.Limit <= 0 {
			filter.Limit = 20
		}

		gens, total, err := s.ListGenerations(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list generations", nil)
			return
		}
		if gens == nil {
			gens = []*models.Generation{}
		}

		response.Collection(w, gens, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

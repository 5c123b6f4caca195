package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferndale-io/textgate/internal/provider/mock"
	"github.com/go-chi/chi/v5"
)

func modelRouter(p *mock.MockProvider) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/models", NewListModelsHandler(p))
	r.Get("/api/v1/models/{modelID}", NewGetModelHandler(p))
	return r
}

func TestListModelsHandler(t *testing.T) {
	router := modelRouter(mock.NewProvider())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/models", nil))

	data := parseOK(t, rec)
	if data["provider"] != "mock" {
		t.Errorf("unexpected provider: %v", data["provider"])
	}
	ms := data["models"].([]any)
	if len(ms) != 1 {
		t.Fatalf("expected 1 model, got %d", len(ms))
	}
	first := ms[0].(map[string]any)
	if first["id"] != "mock-v1" {
		t.Errorf("unexpected model id: %v", first["id"])
	}
}

func TestListModelsHandler_UnknownCapability(t *testing.T) {
	router := modelRouter(mock.NewProvider())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/models?capability=image-generation", nil))

	data := parseOK(t, rec)
	ms := data["models"].([]any)
	if len(ms) != 0 {
		t.Errorf("expected empty model list, got %d", len(ms))
	}
}

func TestGetModelHandler_Found(t *testing.T) {
	router := modelRouter(mock.NewProvider())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/models/mock-v1", nil))

	data := parseOK(t, rec)
	if data["id"] != "mock-v1" {
		t.Errorf("unexpected model id: %v", data["id"])
	}
	if data["display_name"] != "Mock V1" {
		t.Errorf("unexpected display name: %v", data["display_name"])
	}
}

func TestGetModelHandler_NotFound(t *testing.T) {
	router := modelRouter(mock.NewProvider())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/models/gpt-4", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "MODEL_NOT_FOUND" {
		t.Errorf("unexpected error code: %s", env.Error.Code)
	}
}

package provider

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ferndale-io/textgate/internal/provider/mock"
	"github.com/ferndale-io/textgate/internal/store"
	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/google/uuid"
)

// --- mocks ---

type mockStore struct {
	mu          sync.Mutex
	generations []*models.Generation
	createErr   error
}

func (s *mockStore) Ping(_ context.Context) error { return nil }
func (s *mockStore) GetAPIKeyByPrefix(_ context.Context, _ string) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *mockStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }
func (s *mockStore) CreateAPIKey(_ context.Context, _ *models.APIKey) error    { return nil }
func (s *mockStore) ListAPIKeys(_ context.Context) ([]*models.APIKey, error)   { return nil, nil }
func (s *mockStore) RevokeAPIKey(_ context.Context, _ uuid.UUID) error         { return nil }
func (s *mockStore) GetGeneration(_ context.Context, _ uuid.UUID) (*models.Generation, error) {
	return nil, store.ErrNotFound
}
func (s *mockStore) ListGenerations(_ context.Context, _ store.GenerationFilter) ([]*models.Generation, int, error) {
	return nil, 0, nil
}

func (s *mockStore) CreateGeneration(_ context.Context, g *models.Generation) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations = append(s.generations, g)
	return nil
}

func (s *mockStore) recorded() []*models.Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Generation(nil), s.generations...)
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Ping(_ context.Context) error { return nil }
func (c *memCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, nil
}

// --- tests ---

func newService(p models.TextProvider, st *mockStore, ca *memCache) *GenerationService {
	return NewGenerationService(p, st, ca, time.Second)
}

func TestGenerate_Success(t *testing.T) {
	p := mock.NewProvider()
	st := &mockStore{}
	svc := newService(p, st, newMemCache())

	keyID := uuid.New()
	res, err := svc.Generate(context.Background(), GenerateParams{
		KeyID:  keyID,
		Model:  "mock-v1",
		Prompt: "write a haiku",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text == "" {
		t.Error("expected generated text")
	}
	if res.Provider != "mock" || res.Model != "mock-v1" {
		t.Errorf("unexpected provenance: %s/%s", res.Provider, res.Model)
	}
	if res.Cached {
		t.Error("first request must not be served from cache")
	}

	recs := st.recorded()
	if len(recs) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(recs))
	}
	if recs[0].KeyID != keyID || recs[0].Status != models.GenerationStatusCompleted {
		t.Errorf("unexpected audit row: %+v", recs[0])
	}
	if recs[0].PromptChars != len("write a haiku") {
		t.Errorf("prompt size not recorded: %d", recs[0].PromptChars)
	}
}

func TestGenerate_SecondIdenticalRequest_Cached(t *testing.T) {
	p := mock.NewProvider()
	st := &mockStore{}
	svc := newService(p, st, newMemCache())

	params := GenerateParams{KeyID: uuid.New(), Model: "mock-v1", Prompt: "same prompt"}

	first, err := svc.Generate(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Generate(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Error("identical request must be served from cache")
	}
	if second.Text != first.Text {
		t.Errorf("cached text mismatch: %q vs %q", second.Text, first.Text)
	}
	if got := p.GenerateCalls.Load(); got != 1 {
		t.Errorf("provider must be called once, saw %d", got)
	}
	if len(st.recorded()) != 1 {
		t.Errorf("cache hits must not write audit rows, got %d", len(st.recorded()))
	}
}

func TestGenerate_DifferentOptions_NotCached(t *testing.T) {
	p := mock.NewProvider()
	svc := newService(p, &mockStore{}, newMemCache())

	base := GenerateParams{KeyID: uuid.New(), Model: "mock-v1", Prompt: "same prompt"}
	if _, err := svc.Generate(context.Background(), base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withSystem := base
	withSystem.Options.System = "be brief"
	if _, err := svc.Generate(context.Background(), withSystem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.GenerateCalls.Load(); got != 2 {
		t.Errorf("different options must miss the cache, saw %d calls", got)
	}
}

func TestGenerate_UnsupportedModel_NoAuditRow(t *testing.T) {
	p := mock.NewProvider()
	st := &mockStore{}
	svc := newService(p, st, newMemCache())

	_, err := svc.Generate(context.Background(), GenerateParams{
		KeyID:  uuid.New(),
		Model:  "nonexistent",
		Prompt: "hi",
	})
	if !errors.Is(err, models.ErrUnsupportedModel) {
		t.Fatalf("expected ErrUnsupportedModel, got %v", err)
	}
	if got := p.GenerateCalls.Load(); got != 0 {
		t.Errorf("rejected model must not reach the provider, saw %d calls", got)
	}
	if len(st.recorded()) != 0 {
		t.Errorf("rejected model must not write audit rows, got %d", len(st.recorded()))
	}
}

func TestGenerate_ProviderFailure_RecordsFailedRow(t *testing.T) {
	boom := errors.New("model melted down")
	p := mock.NewFailingProvider(boom)
	st := &mockStore{}
	svc := newService(p, st, newMemCache())

	_, err := svc.Generate(context.Background(), GenerateParams{
		KeyID:  uuid.New(),
		Model:  "mock-v1",
		Prompt: "hi",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}

	recs := st.recorded()
	if len(recs) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(recs))
	}
	if recs[0].Status != models.GenerationStatusFailed {
		t.Errorf("expected failed status, got %s", recs[0].Status)
	}
	if recs[0].ErrorMessage == nil || *recs[0].ErrorMessage != boom.Error() {
		t.Errorf("error message not recorded: %v", recs[0].ErrorMessage)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	p := mock.NewTimeoutProvider()
	st := &mockStore{}
	svc := NewGenerationService(p, st, newMemCache(), 20*time.Millisecond)

	_, err := svc.Generate(context.Background(), GenerateParams{
		KeyID:  uuid.New(),
		Model:  "mock-v1",
		Prompt: "hi",
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	recs := st.recorded()
	if len(recs) != 1 || recs[0].Status != models.GenerationStatusFailed {
		t.Errorf("timeout must record a failed row, got %+v", recs)
	}
}

func TestGenerate_AuditFailure_DoesNotFailRequest(t *testing.T) {
	p := mock.NewProvider()
	st := &mockStore{createErr: errors.New("db down")}
	svc := newService(p, st, newMemCache())

	res, err := svc.Generate(context.Background(), GenerateParams{
		KeyID:  uuid.New(),
		Model:  "mock-v1",
		Prompt: "hi",
	})
	if err != nil {
		t.Fatalf("audit failure must not surface: %v", err)
	}
	if res.Text == "" {
		t.Error("expected generated text despite audit failure")
	}
}

func TestGenerate_CacheGetError_FallsThroughToProvider(t *testing.T) {
	p := mock.NewProvider()
	ca := newMemCache()
	ca.getErr = errors.New("redis down")
	svc := newService(p, &mockStore{}, ca)

	res, err := svc.Generate(context.Background(), GenerateParams{
		KeyID:  uuid.New(),
		Model:  "mock-v1",
		Prompt: "hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cached {
		t.Error("cache errors must fall through to the provider")
	}
	if got := p.GenerateCalls.Load(); got != 1 {
		t.Errorf("expected 1 provider call, saw %d", got)
	}
}

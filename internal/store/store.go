package store

import (
	"context"
	"errors"
	"time"

	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error

	CreateGeneration(ctx context.Context, g *models.Generation) error
	GetGeneration(ctx context.Context, id uuid.UUID) (*models.Generation, error)
	ListGenerations(ctx context.Context, filter GenerationFilter) ([]*models.Generation, int, error)
}

// GenerationFilter narrows and paginates usage-audit listings.
type GenerationFilter struct {
	KeyID  uuid.UUID
	Model  string
	Status string
	Since  time.Time
	Page   int
	Limit  int
}

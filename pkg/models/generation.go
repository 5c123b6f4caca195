package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenerationStatusCompleted = "completed"
	GenerationStatusFailed    = "failed"
)

// Generation is the usage-audit record written for every generation request
// that reaches the provider, successful or not.
type Generation struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	KeyID        uuid.UUID `db:"key_id"        json:"key_id"`
	Provider     string    `db:"provider"      json:"provider"`
	Model        string    `db:"model"         json:"model"`
	Status       string    `db:"status"        json:"status"`
	PromptChars  int       `db:"prompt_chars"  json:"prompt_chars"`
	OutputChars  int       `db:"output_chars"  json:"output_chars"`
	DurationMS   int64     `db:"duration_ms"   json:"duration_ms"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

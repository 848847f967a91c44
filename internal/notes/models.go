package notes

import (
	"time"

	"gorm.io/gorm"
)

// IdempotencyRecord maps a client-supplied Idempotency-Key to the note
// it produced, so retried ingestion requests return the original note
// instead of storing a duplicate.
type IdempotencyRecord struct {
	gorm.Model
	IdempotencyKey string `gorm:"uniqueIndex"`
	ResourceID     string
	ResourceType   string
	ExpiresAt      time.Time
}

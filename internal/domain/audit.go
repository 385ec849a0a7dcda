package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord represents a single entry in the audit log. ActivityID is set
// for every entity that belongs to an activity, so the history of an
// activity includes changes to its children.
type AuditRecord struct {
	ID          uuid.UUID      `json:"id"`
	PublisherID uuid.UUID      `json:"publisher_id"`
	ActivityID  *uuid.UUID     `json:"activity_id,omitempty"`
	EntityType  EntityType     `json:"entity_type"`
	EntityID    uuid.UUID      `json:"entity_id"`
	Action      AuditAction    `json:"action"`
	Changes     map[string]any `json:"changes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

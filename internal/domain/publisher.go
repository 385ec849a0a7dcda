package domain

import (
	"time"

	"github.com/google/uuid"
)

// Publisher is an organisation that reports activities.
type Publisher struct {
	ID          uuid.UUID `db:"id" json:"id"`
	IATIID      string    `db:"iati_id" json:"iati_id"`
	Name        string    `db:"name" json:"name"`
	DisplayName string    `db:"display_name" json:"display_name"`
	APIKeyHash  string    `db:"api_key_hash" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentLink points to a web document related to the activity.
type DocumentLink struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ActivityID   uuid.UUID  `db:"activity_id" json:"activity_id"`
	URL          string     `db:"url" json:"url"`
	Format       string     `db:"format" json:"format"`
	DocumentDate *time.Time `db:"document_date" json:"document_date,omitempty"`
	Categories   []string   `db:"categories" json:"categories,omitempty"`
	Languages    []string   `db:"languages" json:"languages,omitempty"`

	Title       []Narrative `db:"-" json:"title,omitempty"`
	Description []Narrative `db:"-" json:"description,omitempty"`
}

// Location is a geographic location of the activity.
type Location struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	ActivityID         uuid.UUID `db:"activity_id" json:"activity_id"`
	Ref                string    `db:"ref" json:"ref"`
	LocationReach      string    `db:"location_reach" json:"location_reach"`
	Exactness          string    `db:"exactness" json:"exactness"`
	LocationClass      string    `db:"location_class" json:"location_class"`
	FeatureDesignation string    `db:"feature_designation" json:"feature_designation"`
	Latitude           *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude          *float64  `db:"longitude" json:"longitude,omitempty"`

	Name                []Narrative `db:"-" json:"name,omitempty"`
	Description         []Narrative `db:"-" json:"description,omitempty"`
	ActivityDescription []Narrative `db:"-" json:"activity_description,omitempty"`
}

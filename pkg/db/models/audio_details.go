package models

import (
	"time"

	"github.com/google/uuid"
)

// AudioDetails holds the audio-specific attributes of a catalog entry.
type AudioDetails struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MediaItemID uuid.UUID `gorm:"column:media_item_id;type:uuid;not null;unique"`
	Artist      *string   `gorm:"column:artist"`
	Album       *string   `gorm:"column:album"`
	TrackCount  *int      `gorm:"column:track_count"`
	Format      *string   `gorm:"column:format"`
	Genre       *string   `gorm:"column:genre"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

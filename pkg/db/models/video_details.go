package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoDetails holds the video-specific attributes of a catalog entry.
type VideoDetails struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MediaItemID    uuid.UUID `gorm:"column:media_item_id;type:uuid;not null;unique"`
	Director       *string   `gorm:"column:director"`
	RuntimeMinutes *int      `gorm:"column:runtime_minutes"`
	Rating         *string   `gorm:"column:rating"`
	Format         *string   `gorm:"column:format"`
	Genre          *string   `gorm:"column:genre"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dpineda/mediashelf-backend/pkg/enums"
)

// MediaItem is a single catalog entry. Exactly one of the detail
// associations is populated, matching MediaType.
type MediaItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title     string          `gorm:"column:title;not null"`
	MediaType enums.MediaType `gorm:"column:media_type;not null"`
	Year      *int            `gorm:"column:year"`
	Notes     *string         `gorm:"column:notes"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Book  *BookDetails  `gorm:"foreignKey:MediaItemID"`
	Audio *AudioDetails `gorm:"foreignKey:MediaItemID"`
	Video *VideoDetails `gorm:"foreignKey:MediaItemID"`
}

// Genre returns the genre of whichever detail row is attached, if any.
func (m *MediaItem) Genre() *string {
	switch {
	case m.Book != nil:
		return m.Book.Genre
	case m.Audio != nil:
		return m.Audio.Genre
	case m.Video != nil:
		return m.Video.Genre
	}
	return nil
}

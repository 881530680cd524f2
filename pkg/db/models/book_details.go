package models

import (
	"time"

	"github.com/google/uuid"
)

// BookDetails holds the book-specific attributes of a catalog entry.
type BookDetails struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MediaItemID         uuid.UUID `gorm:"column:media_item_id;type:uuid;not null;unique"`
	Author              *string   `gorm:"column:author"`
	ISBN                *string   `gorm:"column:isbn"`
	Publisher           *string   `gorm:"column:publisher"`
	PageCount           *int      `gorm:"column:page_count"`
	PhysicalDescription *string   `gorm:"column:physical_description"`
	Genre               *string   `gorm:"column:genre"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

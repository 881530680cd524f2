package catalog

import (
	"context"
	"strings"

	"github.com/dpineda/mediashelf-backend/internal/repo"
	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a media item and its detail row in one transaction.
// Identifiers are assigned here so the write works on both drivers.
func (r *Repository) Create(ctx context.Context, item *models.MediaItem) (*models.MediaItem, error) {
	stampIDs(item)
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a media item with its detail row preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.DB(ctx).
		Preload("Book").
		Preload("Audio").
		Preload("Video").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns media items matching the query. A zero limit returns the
// full result set.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.MediaItem, error) {
	query := r.DB(ctx).Model(&models.MediaItem{}).
		Preload("Book").
		Preload("Audio").
		Preload("Video")

	if opts.search != "" {
		pattern := "%" + strings.ToLower(opts.search) + "%"
		query = query.
			Select("media_items.*").
			Joins("LEFT JOIN book_details ON book_details.media_item_id = media_items.id").
			Joins("LEFT JOIN audio_details ON audio_details.media_item_id = media_items.id").
			Joins("LEFT JOIN video_details ON video_details.media_item_id = media_items.id").
			Where(
				"LOWER(media_items.title) LIKE ? OR LOWER(media_items.media_type) LIKE ? OR LOWER(book_details.genre) LIKE ? OR LOWER(audio_details.genre) LIKE ? OR LOWER(video_details.genre) LIKE ?",
				pattern, pattern, pattern, pattern, pattern,
			)
	}

	if opts.mediaType != nil {
		query = query.Where("media_items.media_type = ?", *opts.mediaType)
	}

	if opts.cursor != nil {
		query = query.Where(
			"(media_items.created_at < ?) OR (media_items.created_at = ? AND media_items.id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID,
		)
	}

	query = applySort(query, opts.sort)
	if opts.limit > 0 {
		query = query.Limit(opts.limit)
	}

	var rows []models.MediaItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update replaces the item's editable columns and upserts its detail row in
// one transaction. Unknown ids surface gorm.ErrRecordNotFound; nothing is
// ever created on that path.
func (r *Repository) Update(ctx context.Context, item *models.MediaItem) error {
	stampIDs(item)
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.MediaItem{}).Where("id = ?", item.ID).Updates(map[string]any{
			"title":      item.Title,
			"media_type": item.MediaType,
			"year":       item.Year,
			"notes":      item.Notes,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		switch {
		case item.Book != nil:
			return tx.Save(item.Book).Error
		case item.Audio != nil:
			return tx.Save(item.Audio).Error
		case item.Video != nil:
			return tx.Save(item.Video).Error
		}
		return nil
	})
}

// Delete removes the item and its detail row. Unknown ids surface
// gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("media_item_id = ?", id).Delete(&models.BookDetails{}).Error; err != nil {
			return err
		}
		if err := tx.Where("media_item_id = ?", id).Delete(&models.AudioDetails{}).Error; err != nil {
			return err
		}
		if err := tx.Where("media_item_id = ?", id).Delete(&models.VideoDetails{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.MediaItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Count returns the total number of catalog entries.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).Model(&models.MediaItem{}).Count(&total).Error
	return total, err
}

func applySort(query *gorm.DB, key SortKey) *gorm.DB {
	switch key {
	case SortByTitle:
		return query.Order("media_items.title ASC").Order("media_items.created_at DESC")
	case SortByType:
		return query.Order("media_items.media_type ASC").Order("media_items.created_at DESC")
	case SortByYear:
		return query.Order("media_items.year DESC").Order("media_items.created_at DESC")
	default:
		return query.Order("media_items.created_at DESC").Order("media_items.id DESC")
	}
}

func stampIDs(item *models.MediaItem) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Book != nil {
		if item.Book.ID == uuid.Nil {
			item.Book.ID = uuid.New()
		}
		item.Book.MediaItemID = item.ID
	}
	if item.Audio != nil {
		if item.Audio.ID == uuid.Nil {
			item.Audio.ID = uuid.New()
		}
		item.Audio.MediaItemID = item.ID
	}
	if item.Video != nil {
		if item.Video.ID == uuid.Nil {
			item.Video.ID = uuid.New()
		}
		item.Video.MediaItemID = item.ID
	}
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dpineda/mediashelf-backend/pkg/db"
	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	"github.com/dpineda/mediashelf-backend/pkg/enums"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type catalogRepository interface {
	Create(ctx context.Context, item *models.MediaItem) (*models.MediaItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaItem, error)
	List(ctx context.Context, opts listQuery) ([]models.MediaItem, error)
	Update(ctx context.Context, item *models.MediaItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// Service exposes catalog create, read, list, update, and delete semantics.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.MediaItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.MediaItem, error)
	ListItems(ctx context.Context, params ListParams) (*ListResult, error)
	BrowseItems(ctx context.Context, params BrowseParams) (*BrowseResult, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.MediaItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateItemInput holds everything needed to add a catalog entry. Exactly
// the detail block matching MediaType may be set.
type CreateItemInput struct {
	Title     string
	MediaType enums.MediaType
	Year      *int
	Notes     string
	Book      *BookDetailsInput
	Audio     *AudioDetailsInput
	Video     *VideoDetailsInput
}

// UpdateItemInput replaces an entry's editable fields. The media type is
// fixed at creation.
type UpdateItemInput struct {
	Title string
	Year  *int
	Notes string
	Book  *BookDetailsInput
	Audio *AudioDetailsInput
	Video *VideoDetailsInput
}

type BookDetailsInput struct {
	Author              string
	ISBN                string
	Publisher           string
	PageCount           *int
	PhysicalDescription string
	Genre               string
}

type AudioDetailsInput struct {
	Artist     string
	Album      string
	TrackCount *int
	Format     string
	Genre      string
}

type VideoDetailsInput struct {
	Director       string
	RuntimeMinutes *int
	Rating         string
	Format         string
	Genre          string
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.MediaItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]string{"title": "title is required"})
	}
	if !input.MediaType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
	}
	if err := detailMatchesType(input.MediaType, input.Book, input.Audio, input.Video); err != nil {
		return nil, err
	}

	item := &models.MediaItem{
		Title:     title,
		MediaType: input.MediaType,
		Year:      input.Year,
		Notes:     optionalText(input.Notes),
	}
	applyDetails(item, input.Book, input.Audio, input.Video)

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "media item already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create media item")
	}
	return created, nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.MediaItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup media item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.MediaItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]string{"title": "title is required"})
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup media item")
	}

	if err := detailMatchesType(item.MediaType, input.Book, input.Audio, input.Video); err != nil {
		return nil, err
	}

	item.Title = title
	item.Year = input.Year
	item.Notes = optionalText(input.Notes)
	applyDetails(item, input.Book, input.Audio, input.Video)

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update media item")
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media item")
	}
	return nil
}

func detailMatchesType(mediaType enums.MediaType, book *BookDetailsInput, audio *AudioDetailsInput, video *VideoDetailsInput) error {
	if book != nil && mediaType != enums.MediaTypeBook {
		return pkgerrors.New(pkgerrors.CodeValidation, "book fields are only valid for book items")
	}
	if audio != nil && mediaType != enums.MediaTypeAudio {
		return pkgerrors.New(pkgerrors.CodeValidation, "audio fields are only valid for audio items")
	}
	if video != nil && mediaType != enums.MediaTypeVideo {
		return pkgerrors.New(pkgerrors.CodeValidation, "video fields are only valid for video items")
	}
	return nil
}

// applyDetails fills the detail row matching the item's type, creating it
// when absent and preserving the row identity when present.
func applyDetails(item *models.MediaItem, book *BookDetailsInput, audio *AudioDetailsInput, video *VideoDetailsInput) {
	switch item.MediaType {
	case enums.MediaTypeBook:
		if book == nil {
			book = &BookDetailsInput{}
		}
		if item.Book == nil {
			item.Book = &models.BookDetails{}
		}
		item.Book.Author = optionalText(book.Author)
		item.Book.ISBN = optionalText(book.ISBN)
		item.Book.Publisher = optionalText(book.Publisher)
		item.Book.PageCount = book.PageCount
		item.Book.PhysicalDescription = optionalText(book.PhysicalDescription)
		item.Book.Genre = optionalText(book.Genre)
	case enums.MediaTypeAudio:
		if audio == nil {
			audio = &AudioDetailsInput{}
		}
		if item.Audio == nil {
			item.Audio = &models.AudioDetails{}
		}
		item.Audio.Artist = optionalText(audio.Artist)
		item.Audio.Album = optionalText(audio.Album)
		item.Audio.TrackCount = audio.TrackCount
		item.Audio.Format = optionalText(audio.Format)
		item.Audio.Genre = optionalText(audio.Genre)
	case enums.MediaTypeVideo:
		if video == nil {
			video = &VideoDetailsInput{}
		}
		if item.Video == nil {
			item.Video = &models.VideoDetails{}
		}
		item.Video.Director = optionalText(video.Director)
		item.Video.RuntimeMinutes = video.RuntimeMinutes
		item.Video.Rating = optionalText(video.Rating)
		item.Video.Format = optionalText(video.Format)
		item.Video.Genre = optionalText(video.Genre)
	}
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

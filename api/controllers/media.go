package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dpineda/mediashelf-backend/api/responses"
	"github.com/dpineda/mediashelf-backend/api/validators"
	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	"github.com/dpineda/mediashelf-backend/pkg/enums"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
	"github.com/dpineda/mediashelf-backend/pkg/pagination"
)

// MediaList returns a cursor-paginated page of catalog entries, newest first.
// Supports q (search), type (media type filter), limit, and cursor.
func MediaList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListItems(r.Context(), catalog.ListParams{
			Query: r.URL.Query().Get("q"),
			Type:  r.URL.Query().Get("type"),
			Page: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// MediaCreate adds a catalog entry with its type-specific details.
func MediaCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload mediaCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, mediaResponseFromModel(created))
	}
}

// MediaGet returns one catalog entry with its details.
func MediaGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := itemContext(r, logg, itemID)

		item, err := svc.GetItem(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, mediaResponseFromModel(item))
	}
}

// MediaUpdate applies a partial update. Absent fields keep their stored
// values; the media type cannot change.
func MediaUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := itemContext(r, logg, itemID)

		var payload mediaUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		existing, err := svc.GetItem(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.UpdateItem(ctx, itemID, payload.mergeInto(existing))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, mediaResponseFromModel(updated))
	}
}

// MediaDelete removes a catalog entry and its details.
func MediaDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := itemContext(r, logg, itemID)

		if err := svc.DeleteItem(ctx, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func itemIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemID")
	itemID, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}

// itemContext scopes the request's log context to the addressed item.
func itemContext(r *http.Request, logg *logger.Logger, itemID uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithItemID(r.Context(), itemID.String())
}

type bookDetailsRequest struct {
	Author              string `json:"author,omitempty"`
	ISBN                string `json:"isbn,omitempty"`
	Publisher           string `json:"publisher,omitempty"`
	PageCount           *int   `json:"page_count,omitempty" validate:"omitempty,min=1"`
	PhysicalDescription string `json:"physical_description,omitempty"`
	Genre               string `json:"genre,omitempty"`
}

type audioDetailsRequest struct {
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
	TrackCount *int   `json:"track_count,omitempty" validate:"omitempty,min=1"`
	Format     string `json:"format,omitempty"`
	Genre      string `json:"genre,omitempty"`
}

type videoDetailsRequest struct {
	Director       string `json:"director,omitempty"`
	RuntimeMinutes *int   `json:"runtime_minutes,omitempty" validate:"omitempty,min=1"`
	Rating         string `json:"rating,omitempty"`
	Format         string `json:"format,omitempty"`
	Genre          string `json:"genre,omitempty"`
}

type mediaCreateRequest struct {
	Title     string               `json:"title" validate:"required"`
	MediaType string               `json:"media_type" validate:"required"`
	Year      *int                 `json:"year,omitempty" validate:"omitempty,min=0"`
	Notes     string               `json:"notes,omitempty"`
	Book      *bookDetailsRequest  `json:"book,omitempty"`
	Audio     *audioDetailsRequest `json:"audio,omitempty"`
	Video     *videoDetailsRequest `json:"video,omitempty"`
}

func (r mediaCreateRequest) toInput() (catalog.CreateItemInput, error) {
	mediaType, err := enums.ParseMediaType(strings.TrimSpace(r.MediaType))
	if err != nil {
		return catalog.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media type")
	}

	return catalog.CreateItemInput{
		Title:     strings.TrimSpace(r.Title),
		MediaType: mediaType,
		Year:      r.Year,
		Notes:     r.Notes,
		Book:      r.Book.toInput(),
		Audio:     r.Audio.toInput(),
		Video:     r.Video.toInput(),
	}, nil
}

type mediaUpdateRequest struct {
	Title *string              `json:"title,omitempty" validate:"omitempty,min=1"`
	Year  *int                 `json:"year,omitempty" validate:"omitempty,min=0"`
	Notes *string              `json:"notes,omitempty"`
	Book  *bookDetailsRequest  `json:"book,omitempty"`
	Audio *audioDetailsRequest `json:"audio,omitempty"`
	Video *videoDetailsRequest `json:"video,omitempty"`
}

// mergeInto lays the provided fields over the stored item so the service's
// full replacement keeps everything the payload left out.
func (r mediaUpdateRequest) mergeInto(existing *models.MediaItem) catalog.UpdateItemInput {
	input := catalog.UpdateItemInput{
		Title: existing.Title,
		Year:  existing.Year,
		Notes: textValue(existing.Notes),
		Book:  bookInputFromModel(existing.Book),
		Audio: audioInputFromModel(existing.Audio),
		Video: videoInputFromModel(existing.Video),
	}

	if r.Title != nil {
		input.Title = strings.TrimSpace(*r.Title)
	}
	if r.Year != nil {
		input.Year = r.Year
	}
	if r.Notes != nil {
		input.Notes = *r.Notes
	}
	if r.Book != nil {
		input.Book = r.Book.toInput()
	}
	if r.Audio != nil {
		input.Audio = r.Audio.toInput()
	}
	if r.Video != nil {
		input.Video = r.Video.toInput()
	}
	return input
}

func (r *bookDetailsRequest) toInput() *catalog.BookDetailsInput {
	if r == nil {
		return nil
	}
	return &catalog.BookDetailsInput{
		Author:              r.Author,
		ISBN:                r.ISBN,
		Publisher:           r.Publisher,
		PageCount:           r.PageCount,
		PhysicalDescription: r.PhysicalDescription,
		Genre:               r.Genre,
	}
}

func (r *audioDetailsRequest) toInput() *catalog.AudioDetailsInput {
	if r == nil {
		return nil
	}
	return &catalog.AudioDetailsInput{
		Artist:     r.Artist,
		Album:      r.Album,
		TrackCount: r.TrackCount,
		Format:     r.Format,
		Genre:      r.Genre,
	}
}

func (r *videoDetailsRequest) toInput() *catalog.VideoDetailsInput {
	if r == nil {
		return nil
	}
	return &catalog.VideoDetailsInput{
		Director:       r.Director,
		RuntimeMinutes: r.RuntimeMinutes,
		Rating:         r.Rating,
		Format:         r.Format,
		Genre:          r.Genre,
	}
}

func bookInputFromModel(d *models.BookDetails) *catalog.BookDetailsInput {
	if d == nil {
		return nil
	}
	return &catalog.BookDetailsInput{
		Author:              textValue(d.Author),
		ISBN:                textValue(d.ISBN),
		Publisher:           textValue(d.Publisher),
		PageCount:           d.PageCount,
		PhysicalDescription: textValue(d.PhysicalDescription),
		Genre:               textValue(d.Genre),
	}
}

func audioInputFromModel(d *models.AudioDetails) *catalog.AudioDetailsInput {
	if d == nil {
		return nil
	}
	return &catalog.AudioDetailsInput{
		Artist:     textValue(d.Artist),
		Album:      textValue(d.Album),
		TrackCount: d.TrackCount,
		Format:     textValue(d.Format),
		Genre:      textValue(d.Genre),
	}
}

func videoInputFromModel(d *models.VideoDetails) *catalog.VideoDetailsInput {
	if d == nil {
		return nil
	}
	return &catalog.VideoDetailsInput{
		Director:       textValue(d.Director),
		RuntimeMinutes: d.RuntimeMinutes,
		Rating:         textValue(d.Rating),
		Format:         textValue(d.Format),
		Genre:          textValue(d.Genre),
	}
}

type mediaResponse struct {
	ID        uuid.UUID             `json:"id"`
	Title     string                `json:"title"`
	MediaType enums.MediaType       `json:"media_type"`
	Year      *int                  `json:"year,omitempty"`
	Notes     *string               `json:"notes,omitempty"`
	Book      *bookDetailsResponse  `json:"book,omitempty"`
	Audio     *audioDetailsResponse `json:"audio,omitempty"`
	Video     *videoDetailsResponse `json:"video,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type bookDetailsResponse struct {
	Author              *string `json:"author,omitempty"`
	ISBN                *string `json:"isbn,omitempty"`
	Publisher           *string `json:"publisher,omitempty"`
	PageCount           *int    `json:"page_count,omitempty"`
	PhysicalDescription *string `json:"physical_description,omitempty"`
	Genre               *string `json:"genre,omitempty"`
}

type audioDetailsResponse struct {
	Artist     *string `json:"artist,omitempty"`
	Album      *string `json:"album,omitempty"`
	TrackCount *int    `json:"track_count,omitempty"`
	Format     *string `json:"format,omitempty"`
	Genre      *string `json:"genre,omitempty"`
}

type videoDetailsResponse struct {
	Director       *string `json:"director,omitempty"`
	RuntimeMinutes *int    `json:"runtime_minutes,omitempty"`
	Rating         *string `json:"rating,omitempty"`
	Format         *string `json:"format,omitempty"`
	Genre          *string `json:"genre,omitempty"`
}

func mediaResponseFromModel(m *models.MediaItem) mediaResponse {
	resp := mediaResponse{
		ID:        m.ID,
		Title:     m.Title,
		MediaType: m.MediaType,
		Year:      m.Year,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Book != nil {
		resp.Book = &bookDetailsResponse{
			Author:              m.Book.Author,
			ISBN:                m.Book.ISBN,
			Publisher:           m.Book.Publisher,
			PageCount:           m.Book.PageCount,
			PhysicalDescription: m.Book.PhysicalDescription,
			Genre:               m.Book.Genre,
		}
	}
	if m.Audio != nil {
		resp.Audio = &audioDetailsResponse{
			Artist:     m.Audio.Artist,
			Album:      m.Audio.Album,
			TrackCount: m.Audio.TrackCount,
			Format:     m.Audio.Format,
			Genre:      m.Audio.Genre,
		}
	}
	if m.Video != nil {
		resp.Video = &videoDetailsResponse{
			Director:       m.Video.Director,
			RuntimeMinutes: m.Video.RuntimeMinutes,
			Rating:         m.Video.Rating,
			Format:         m.Video.Format,
			Genre:          m.Video.Genre,
		}
	}
	return resp
}

func textValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

package pages

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	"github.com/dpineda/mediashelf-backend/pkg/enums"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	"github.com/dpineda/mediashelf-backend/pkg/flash"
)

// itemForm holds raw form input so failed submissions re-render with the
// typed values intact.
type itemForm struct {
	Title string
	Year  string
	Notes string

	Author              string
	ISBN                string
	Publisher           string
	PageCount           string
	PhysicalDescription string

	Artist     string
	Album      string
	TrackCount string

	Director       string
	RuntimeMinutes string
	Rating         string

	Format string
	Genre  string
}

func parseItemForm(r *http.Request) itemForm {
	get := func(key string) string {
		return strings.TrimSpace(r.PostFormValue(key))
	}
	return itemForm{
		Title:               get("title"),
		Year:                get("year"),
		Notes:               get("notes"),
		Author:              get("author"),
		ISBN:                get("isbn"),
		Publisher:           get("publisher"),
		PageCount:           get("page_count"),
		PhysicalDescription: get("physical_description"),
		Artist:              get("artist"),
		Album:               get("album"),
		TrackCount:          get("track_count"),
		Director:            get("director"),
		RuntimeMinutes:      get("runtime_minutes"),
		Rating:              get("rating"),
		Format:              get("format"),
		Genre:               get("genre"),
	}
}

// formFromItem prefills the edit form from a stored entry.
func formFromItem(item *models.MediaItem) itemForm {
	form := itemForm{
		Title: item.Title,
		Notes: textValue(item.Notes),
	}
	if item.Year != nil {
		form.Year = strconv.Itoa(*item.Year)
	}
	switch {
	case item.Book != nil:
		form.Author = textValue(item.Book.Author)
		form.ISBN = textValue(item.Book.ISBN)
		form.Publisher = textValue(item.Book.Publisher)
		if item.Book.PageCount != nil {
			form.PageCount = strconv.Itoa(*item.Book.PageCount)
		}
		form.PhysicalDescription = textValue(item.Book.PhysicalDescription)
		form.Genre = textValue(item.Book.Genre)
	case item.Audio != nil:
		form.Artist = textValue(item.Audio.Artist)
		form.Album = textValue(item.Audio.Album)
		if item.Audio.TrackCount != nil {
			form.TrackCount = strconv.Itoa(*item.Audio.TrackCount)
		}
		form.Format = textValue(item.Audio.Format)
		form.Genre = textValue(item.Audio.Genre)
	case item.Video != nil:
		form.Director = textValue(item.Video.Director)
		if item.Video.RuntimeMinutes != nil {
			form.RuntimeMinutes = strconv.Itoa(*item.Video.RuntimeMinutes)
		}
		form.Rating = textValue(item.Video.Rating)
		form.Format = textValue(item.Video.Format)
		form.Genre = textValue(item.Video.Genre)
	}
	return form
}

// toCreateInput converts the raw form into service input, collecting
// field-keyed messages for anything invalid.
func (f itemForm) toCreateInput(mediaType enums.MediaType) (catalog.CreateItemInput, map[string]string) {
	errs := map[string]string{}

	if f.Title == "" {
		errs["title"] = "Title is required."
	}

	input := catalog.CreateItemInput{
		Title:     f.Title,
		MediaType: mediaType,
		Year:      optionalFormInt(f.Year, 0, "year", "Year", errs),
		Notes:     f.Notes,
	}

	switch mediaType {
	case enums.MediaTypeBook:
		input.Book = &catalog.BookDetailsInput{
			Author:              f.Author,
			ISBN:                f.ISBN,
			Publisher:           f.Publisher,
			PageCount:           optionalFormInt(f.PageCount, 1, "page_count", "Page count", errs),
			PhysicalDescription: f.PhysicalDescription,
			Genre:               f.Genre,
		}
	case enums.MediaTypeAudio:
		input.Audio = &catalog.AudioDetailsInput{
			Artist:     f.Artist,
			Album:      f.Album,
			TrackCount: optionalFormInt(f.TrackCount, 1, "track_count", "Track count", errs),
			Format:     f.Format,
			Genre:      f.Genre,
		}
	case enums.MediaTypeVideo:
		input.Video = &catalog.VideoDetailsInput{
			Director:       f.Director,
			RuntimeMinutes: optionalFormInt(f.RuntimeMinutes, 1, "runtime_minutes", "Runtime", errs),
			Rating:         f.Rating,
			Format:         f.Format,
			Genre:          f.Genre,
		}
	}
	return input, errs
}

func (f itemForm) toUpdateInput(mediaType enums.MediaType) (catalog.UpdateItemInput, map[string]string) {
	createInput, errs := f.toCreateInput(mediaType)
	return catalog.UpdateItemInput{
		Title: createInput.Title,
		Year:  createInput.Year,
		Notes: createInput.Notes,
		Book:  createInput.Book,
		Audio: createInput.Audio,
		Video: createInput.Video,
	}, errs
}

// optionalFormInt parses an optional numeric field, recording a message in
// errs when the value is not a whole number at or above min.
func optionalFormInt(raw string, min int, key, label string, errs map[string]string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[key] = label + " must be a whole number."
		return nil
	}
	if n < min {
		errs[key] = fmt.Sprintf("%s must be at least %d.", label, min)
		return nil
	}
	return &n
}

type formData struct {
	pageData
	Mode      string
	TypeLabel string
	TypeSlug  string
	Action    string
	CancelURL string
	Form      itemForm
	Errors    map[string]string
	Banner    string
}

// AddForm renders the blank add form for one media type.
func (h *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := h.pathMediaType(w, r)
	if !ok {
		return
	}

	data := formData{
		pageData: pageData{
			Title:   "Add " + strings.ToLower(mediaType.Label()),
			Flashes: flash.Pop(w, r, h.secretKey),
		},
		Mode:      "add",
		TypeLabel: mediaType.Label(),
		TypeSlug:  mediaType.String(),
		Action:    "/add/" + mediaType.String(),
		CancelURL: "/media",
	}
	h.render(w, r, http.StatusOK, h.formTpl, data)
}

// AddSubmit validates the posted form and creates the entry, re-rendering
// the form with messages and the typed values when validation fails.
func (h *Handler) AddSubmit(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := h.pathMediaType(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	form := parseItemForm(r)
	input, errs := form.toCreateInput(mediaType)

	rerender := func(banner string) {
		data := formData{
			pageData:  pageData{Title: "Add " + strings.ToLower(mediaType.Label())},
			Mode:      "add",
			TypeLabel: mediaType.Label(),
			TypeSlug:  mediaType.String(),
			Action:    "/add/" + mediaType.String(),
			CancelURL: "/media",
			Form:      form,
			Errors:    errs,
			Banner:    banner,
		}
		h.render(w, r, http.StatusBadRequest, h.formTpl, data)
	}

	if len(errs) > 0 {
		rerender("")
		return
	}

	item, err := h.svc.CreateItem(r.Context(), input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			rerender(typed.Message())
			return
		}
		h.renderServiceError(w, r, err)
		return
	}

	h.setFlash(w, r, flash.Message{
		Level: flash.LevelSuccess,
		Text:  mediaType.Label() + " added successfully.",
	})
	http.Redirect(w, r, "/media/"+item.ID.String(), http.StatusSeeOther)
}

// EditForm renders the edit form prefilled from the stored entry.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := h.pathMediaType(w, r)
	if !ok {
		return
	}
	itemID, ok := h.pathItemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(r.Context(), itemID)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	if item.MediaType != mediaType {
		h.renderNotFound(w, r)
		return
	}

	data := formData{
		pageData: pageData{
			Title:   "Edit " + strings.ToLower(mediaType.Label()),
			Flashes: flash.Pop(w, r, h.secretKey),
		},
		Mode:      "edit",
		TypeLabel: mediaType.Label(),
		TypeSlug:  mediaType.String(),
		Action:    "/edit/" + mediaType.String() + "/" + item.ID.String(),
		CancelURL: "/media/" + item.ID.String(),
		Form:      formFromItem(item),
	}
	h.render(w, r, http.StatusOK, h.formTpl, data)
}

// EditSubmit validates the posted form and updates the entry in place.
func (h *Handler) EditSubmit(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := h.pathMediaType(w, r)
	if !ok {
		return
	}
	itemID, ok := h.pathItemID(w, r)
	if !ok {
		return
	}

	existing, err := h.svc.GetItem(r.Context(), itemID)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	if existing.MediaType != mediaType {
		h.renderNotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	form := parseItemForm(r)
	input, errs := form.toUpdateInput(mediaType)

	rerender := func(banner string) {
		data := formData{
			pageData:  pageData{Title: "Edit " + strings.ToLower(mediaType.Label())},
			Mode:      "edit",
			TypeLabel: mediaType.Label(),
			TypeSlug:  mediaType.String(),
			Action:    "/edit/" + mediaType.String() + "/" + itemID.String(),
			CancelURL: "/media/" + itemID.String(),
			Form:      form,
			Errors:    errs,
			Banner:    banner,
		}
		h.render(w, r, http.StatusBadRequest, h.formTpl, data)
	}

	if len(errs) > 0 {
		rerender("")
		return
	}

	updated, err := h.svc.UpdateItem(r.Context(), itemID, input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			rerender(typed.Message())
			return
		}
		h.renderServiceError(w, r, err)
		return
	}

	h.setFlash(w, r, flash.Message{
		Level: flash.LevelSuccess,
		Text:  mediaType.Label() + " updated successfully.",
	})
	http.Redirect(w, r, "/media/"+updated.ID.String(), http.StatusSeeOther)
}

// Delete removes the entry and returns to the listing.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.pathItemID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(r.Context(), itemID); err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	h.setFlash(w, r, flash.Message{
		Level: flash.LevelSuccess,
		Text:  "Item deleted.",
	})
	http.Redirect(w, r, "/media", http.StatusSeeOther)
}

// setFlash queues a one-shot notice for the next page view.
func (h *Handler) setFlash(w http.ResponseWriter, r *http.Request, msg flash.Message) {
	if err := flash.Set(w, h.secretKey, msg); err != nil && h.logg != nil {
		h.logg.Error(r.Context(), "page.flash", err)
	}
}

// pathMediaType parses the media type path segment, rendering a 404 page
// for unknown types.
func (h *Handler) pathMediaType(w http.ResponseWriter, r *http.Request) (enums.MediaType, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "mediaType"))
	mediaType, err := enums.ParseMediaType(raw)
	if err != nil {
		h.renderNotFound(w, r)
		return "", false
	}
	return mediaType, true
}

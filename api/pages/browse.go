package pages

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	"github.com/dpineda/mediashelf-backend/pkg/flash"
)

// itemRow is one line of the catalog listing.
type itemRow struct {
	Title     string
	TypeLabel string
	TypeSlug  string
	Year      string
	Genre     string
	DateAdded string
	DetailURL string
	EditURL   string
	DeleteURL string
}

type listData struct {
	pageData
	Items   []itemRow
	Query   string
	SortBy  string
	Total   int64
	Showing int
}

// List renders the catalog with optional q (search) and sort_by parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	sortBy := catalog.ParseSortKey(r.URL.Query().Get("sort_by"))

	result, err := h.svc.BrowseItems(r.Context(), catalog.BrowseParams{
		Query:  query,
		SortBy: sortBy,
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	rows := make([]itemRow, 0, len(result.Items))
	for i := range result.Items {
		rows = append(rows, rowFromModel(&result.Items[i]))
	}

	data := listData{
		pageData: pageData{
			Title:   "All media",
			Flashes: flash.Pop(w, r, h.secretKey),
		},
		Items:   rows,
		Query:   query,
		SortBy:  string(sortBy),
		Total:   result.Total,
		Showing: len(rows),
	}
	h.render(w, r, http.StatusOK, h.listTpl, data)
}

// detailField is one label/value pair on the detail page.
type detailField struct {
	Label string
	Value string
}

type detailData struct {
	pageData
	Item      itemRow
	Notes     string
	Fields    []detailField
	DeleteURL string
}

// Detail renders a single catalog entry with its type-specific fields.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.pathItemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(r.Context(), itemID)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	data := detailData{
		pageData: pageData{
			Title:   item.Title,
			Flashes: flash.Pop(w, r, h.secretKey),
		},
		Item:      rowFromModel(item),
		Notes:     textValue(item.Notes),
		Fields:    detailFields(item),
		DeleteURL: "/media/" + item.ID.String() + "/delete",
	}
	h.render(w, r, http.StatusOK, h.detailTpl, data)
}

// pathItemID parses the item id path segment, rendering a 404 page for
// anything that is not a UUID.
func (h *Handler) pathItemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemID"))
	itemID, err := uuid.Parse(raw)
	if err != nil {
		h.renderNotFound(w, r)
		return uuid.Nil, false
	}
	return itemID, true
}

// renderServiceError maps service failures onto the error page.
func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeNotFound:
			h.renderNotFound(w, r)
			return
		case pkgerrors.CodeValidation:
			h.renderError(w, r, http.StatusBadRequest, typed.Message())
			return
		}
	}
	if h.logg != nil {
		h.logg.Error(r.Context(), "page.error", err)
	}
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Try again in a moment.")
}

func rowFromModel(item *models.MediaItem) itemRow {
	row := itemRow{
		Title:     item.Title,
		TypeLabel: item.MediaType.Label(),
		TypeSlug:  item.MediaType.String(),
		Genre:     textValue(item.Genre()),
		DateAdded: item.CreatedAt.Format("Jan 2, 2006"),
		DetailURL: "/media/" + item.ID.String(),
		EditURL:   "/edit/" + item.MediaType.String() + "/" + item.ID.String(),
		DeleteURL: "/media/" + item.ID.String() + "/delete",
	}
	if item.Year != nil {
		row.Year = strconv.Itoa(*item.Year)
	}
	return row
}

// detailFields flattens the type-specific detail row into display pairs,
// skipping empty values.
func detailFields(item *models.MediaItem) []detailField {
	var fields []detailField
	add := func(label string, value string) {
		if value != "" {
			fields = append(fields, detailField{Label: label, Value: value})
		}
	}
	addInt := func(label string, value *int) {
		if value != nil {
			fields = append(fields, detailField{Label: label, Value: strconv.Itoa(*value)})
		}
	}

	switch {
	case item.Book != nil:
		add("Author", textValue(item.Book.Author))
		add("ISBN", textValue(item.Book.ISBN))
		add("Publisher", textValue(item.Book.Publisher))
		addInt("Pages", item.Book.PageCount)
		add("Physical description", textValue(item.Book.PhysicalDescription))
		add("Genre", textValue(item.Book.Genre))
	case item.Audio != nil:
		add("Artist", textValue(item.Audio.Artist))
		add("Album", textValue(item.Audio.Album))
		addInt("Tracks", item.Audio.TrackCount)
		add("Format", textValue(item.Audio.Format))
		add("Genre", textValue(item.Audio.Genre))
	case item.Video != nil:
		add("Director", textValue(item.Video.Director))
		addInt("Runtime (minutes)", item.Video.RuntimeMinutes)
		add("Rating", textValue(item.Video.Rating))
		add("Format", textValue(item.Video.Format))
		add("Genre", textValue(item.Video.Genre))
	}
	return fields
}

func textValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

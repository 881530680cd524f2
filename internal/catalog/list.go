package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	"github.com/dpineda/mediashelf-backend/pkg/enums"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	pkgpagination "github.com/dpineda/mediashelf-backend/pkg/pagination"
	"github.com/google/uuid"
)

// SortKey selects the listing order on the browse surface.
type SortKey string

const (
	SortByDateAdded SortKey = "date"
	SortByTitle     SortKey = "title"
	SortByType      SortKey = "type"
	SortByYear      SortKey = "year"
)

// ParseSortKey maps raw input to a sort key, falling back to newest-first
// for anything unknown.
func ParseSortKey(value string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortByTitle:
		return SortByTitle
	case SortByType:
		return SortByType
	case SortByYear:
		return SortByYear
	default:
		return SortByDateAdded
	}
}

// ListParams configures the cursor-paginated listing.
type ListParams struct {
	Query string
	Type  string
	Page  pkgpagination.Params
}

// ListResult returns one page of catalog entries.
type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListItem is the summary projection of a catalog entry.
type ListItem struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	MediaType enums.MediaType `json:"media_type"`
	Year      *int            `json:"year,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	Genre     *string         `json:"genre,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BrowseParams configures the full listing backing the HTML index.
type BrowseParams struct {
	Query  string
	SortBy SortKey
}

// BrowseResult carries the filtered rows plus the unfiltered total.
type BrowseResult struct {
	Items []models.MediaItem
	Total int64
}

type listQuery struct {
	search    string
	mediaType *enums.MediaType
	sort      SortKey
	cursor    *pkgpagination.Cursor
	limit     int
}

// ListItems returns catalog entries newest-first with cursor pagination,
// optionally narrowed by search text and media type.
func (s *service) ListItems(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Page.Limit)
	query := listQuery{
		search: strings.TrimSpace(params.Query),
		sort:   SortByDateAdded,
		limit:  pkgpagination.LimitWithBuffer(params.Page.Limit),
	}

	if raw := strings.TrimSpace(params.Type); raw != "" {
		mediaType, err := enums.ParseMediaType(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media type filter")
		}
		query.mediaType = &mediaType
	}

	if params.Page.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Page.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog items")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		tail := rows[limit-1]
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: tail.CreatedAt,
			ID:        tail.ID,
		})
	}

	items := make([]ListItem, len(rows))
	for i := range rows {
		items[i] = toListItem(&rows[i])
	}

	return &ListResult{
		Items:  items,
		Cursor: nextCursor,
	}, nil
}

// BrowseItems returns the full filtered listing for the HTML index along
// with the unfiltered catalog total.
func (s *service) BrowseItems(ctx context.Context, params BrowseParams) (*BrowseResult, error) {
	query := listQuery{
		search: strings.TrimSpace(params.Query),
		sort:   params.SortBy,
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse catalog items")
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count catalog items")
	}

	return &BrowseResult{
		Items: rows,
		Total: total,
	}, nil
}

func toListItem(m *models.MediaItem) ListItem {
	return ListItem{
		ID:        m.ID,
		Title:     m.Title,
		MediaType: m.MediaType,
		Year:      m.Year,
		Notes:     m.Notes,
		Genre:     m.Genre(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

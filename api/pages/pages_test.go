package pages

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/config"
	"github.com/dpineda/mediashelf-backend/pkg/db/models"
	"github.com/dpineda/mediashelf-backend/pkg/enums"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	"github.com/dpineda/mediashelf-backend/pkg/flash"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
)

const testSecret = "test-secret"

type stubCatalogService struct {
	createFn func(ctx context.Context, input catalog.CreateItemInput) (*models.MediaItem, error)
	getFn    func(ctx context.Context, itemID uuid.UUID) (*models.MediaItem, error)
	listFn   func(ctx context.Context, params catalog.ListParams) (*catalog.ListResult, error)
	browseFn func(ctx context.Context, params catalog.BrowseParams) (*catalog.BrowseResult, error)
	updateFn func(ctx context.Context, itemID uuid.UUID, input catalog.UpdateItemInput) (*models.MediaItem, error)
	deleteFn func(ctx context.Context, itemID uuid.UUID) error
}

func (s *stubCatalogService) CreateItem(ctx context.Context, input catalog.CreateItemInput) (*models.MediaItem, error) {
	if s.createFn == nil {
		panic("unexpected CreateItem call")
	}
	return s.createFn(ctx, input)
}

func (s *stubCatalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.MediaItem, error) {
	if s.getFn == nil {
		panic("unexpected GetItem call")
	}
	return s.getFn(ctx, itemID)
}

func (s *stubCatalogService) ListItems(ctx context.Context, params catalog.ListParams) (*catalog.ListResult, error) {
	if s.listFn == nil {
		panic("unexpected ListItems call")
	}
	return s.listFn(ctx, params)
}

func (s *stubCatalogService) BrowseItems(ctx context.Context, params catalog.BrowseParams) (*catalog.BrowseResult, error) {
	if s.browseFn == nil {
		panic("unexpected BrowseItems call")
	}
	return s.browseFn(ctx, params)
}

func (s *stubCatalogService) UpdateItem(ctx context.Context, itemID uuid.UUID, input catalog.UpdateItemInput) (*models.MediaItem, error) {
	if s.updateFn == nil {
		panic("unexpected UpdateItem call")
	}
	return s.updateFn(ctx, itemID, input)
}

func (s *stubCatalogService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if s.deleteFn == nil {
		panic("unexpected DeleteItem call")
	}
	return s.deleteFn(ctx, itemID)
}

func newTestHandler(t *testing.T, svc catalog.Service) *Handler {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{SecretKey: testSecret}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	h, err := NewHandler(svc, cfg, logg)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

// pageRequest builds a request carrying chi URL params the way the router
// would supply them.
func pageRequest(method, target string, params map[string]string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func popTestFlash(t *testing.T, rec *httptest.ResponseRecorder) []flash.Message {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != flash.CookieName || cookie.Value == "" {
			continue
		}
		messages, err := flash.Parse(testSecret, cookie.Value)
		if err != nil {
			t.Fatalf("parsing flash cookie: %v", err)
		}
		return messages
	}
	return nil
}

func sampleBookItem(id uuid.UUID) *models.MediaItem {
	author := "Ursula K. Le Guin"
	genre := "fantasy"
	notes := "hardcover"
	year := 1968
	return &models.MediaItem{
		ID:        id,
		Title:     "A Wizard of Earthsea",
		MediaType: enums.MediaTypeBook,
		Year:      &year,
		Notes:     &notes,
		Book: &models.BookDetails{
			ID:          uuid.New(),
			MediaItemID: id,
			Author:      &author,
			Genre:       &genre,
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestNewHandlerRequiresService(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{SecretKey: testSecret}}
	if _, err := NewHandler(nil, cfg, nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestHomeRedirectsToListing(t *testing.T) {
	h := newTestHandler(t, &stubCatalogService{})

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/media" {
		t.Fatalf("expected redirect to /media, got %q", loc)
	}
}

func TestListRendersCatalog(t *testing.T) {
	var captured catalog.BrowseParams
	first := sampleBookItem(uuid.New())
	second := sampleBookItem(uuid.New())
	second.Title = "The Tombs of Atuan"

	svc := &stubCatalogService{
		browseFn: func(_ context.Context, params catalog.BrowseParams) (*catalog.BrowseResult, error) {
			captured = params
			return &catalog.BrowseResult{Items: []models.MediaItem{*first, *second}, Total: 2}, nil
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	h.List(rec, pageRequest(http.MethodGet, "/media?q=earthsea&sort_by=title", nil, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	if captured.Query != "earthsea" {
		t.Errorf("expected query passthrough, got %q", captured.Query)
	}
	if captured.SortBy != catalog.SortByTitle {
		t.Errorf("expected title sort, got %q", captured.SortBy)
	}

	body := rec.Body.String()
	for _, want := range []string{"A Wizard of Earthsea", "The Tombs of Atuan", "Showing 2 of 2", `value="earthsea"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestListEmptyShowsGettingStarted(t *testing.T) {
	svc := &stubCatalogService{
		browseFn: func(_ context.Context, _ catalog.BrowseParams) (*catalog.BrowseResult, error) {
			return &catalog.BrowseResult{}, nil
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	h.List(rec, pageRequest(http.MethodGet, "/media", nil, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nothing here yet") {
		t.Error("expected empty state message")
	}
}

func TestListServiceFailureRendersErrorPage(t *testing.T) {
	svc := &stubCatalogService{
		browseFn: func(_ context.Context, _ catalog.BrowseParams) (*catalog.BrowseResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "connection reset")
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	h.List(rec, pageRequest(http.MethodGet, "/media", nil, nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Something went wrong") {
		t.Error("expected generic failure message")
	}
	if strings.Contains(body, "connection reset") {
		t.Error("internal error text must not leak into the page")
	}
}

func TestDetailRendersTypedFields(t *testing.T) {
	itemID := uuid.New()
	svc := &stubCatalogService{
		getFn: func(_ context.Context, id uuid.UUID) (*models.MediaItem, error) {
			if id != itemID {
				t.Errorf("expected lookup for %s, got %s", itemID, id)
			}
			return sampleBookItem(itemID), nil
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodGet, "/media/"+itemID.String(), map[string]string{"itemID": itemID.String()}, nil)
	h.Detail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"A Wizard of Earthsea", "Author", "Ursula K. Le Guin", "hardcover", "/media/" + itemID.String() + "/delete"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestDetailBadIDRendersNotFoundPage(t *testing.T) {
	h := newTestHandler(t, &stubCatalogService{})

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodGet, "/media/not-a-uuid", map[string]string{"itemID": "not-a-uuid"}, nil)
	h.Detail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "That item does not exist.") {
		t.Error("expected not-found message")
	}
}

func TestDetailMissingItemRendersNotFoundPage(t *testing.T) {
	itemID := uuid.New()
	svc := &stubCatalogService{
		getFn: func(_ context.Context, _ uuid.UUID) (*models.MediaItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodGet, "/media/"+itemID.String(), map[string]string{"itemID": itemID.String()}, nil)
	h.Detail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddFormRendersTypeFields(t *testing.T) {
	h := newTestHandler(t, &stubCatalogService{})

	t.Run("book form", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := pageRequest(http.MethodGet, "/add/book", map[string]string{"mediaType": "book"}, nil)
		h.AddForm(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `name="author"`) {
			t.Error("expected book fields")
		}
		if strings.Contains(body, `name="artist"`) {
			t.Error("audio fields must not render on the book form")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := pageRequest(http.MethodGet, "/add/vinyl", map[string]string{"mediaType": "vinyl"}, nil)
		h.AddForm(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAddSubmitValidationKeepsInput(t *testing.T) {
	h := newTestHandler(t, &stubCatalogService{})

	form := url.Values{}
	form.Set("title", "")
	form.Set("year", "194x")
	form.Set("author", "Tove Jansson")

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodPost, "/add/book", map[string]string{"mediaType": "book"}, form)
	h.AddSubmit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Title is required.", "Year must be a whole number.", `value="Tove Jansson"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestAddSubmitCreatesAndRedirects(t *testing.T) {
	itemID := uuid.New()
	var captured catalog.CreateItemInput
	svc := &stubCatalogService{
		createFn: func(_ context.Context, input catalog.CreateItemInput) (*models.MediaItem, error) {
			captured = input
			return sampleBookItem(itemID), nil
		},
	}
	h := newTestHandler(t, svc)

	form := url.Values{}
	form.Set("title", "  A Wizard of Earthsea  ")
	form.Set("year", "1968")
	form.Set("author", "Ursula K. Le Guin")
	form.Set("page_count", "183")
	form.Set("genre", "fantasy")
	form.Set("notes", "first edition")

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodPost, "/add/book", map[string]string{"mediaType": "book"}, form)
	h.AddSubmit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/media/"+itemID.String() {
		t.Fatalf("expected redirect to detail page, got %q", loc)
	}

	if captured.Title != "A Wizard of Earthsea" {
		t.Errorf("expected trimmed title, got %q", captured.Title)
	}
	if captured.MediaType != enums.MediaTypeBook {
		t.Errorf("expected book type, got %q", captured.MediaType)
	}
	if captured.Year == nil || *captured.Year != 1968 {
		t.Errorf("expected year 1968, got %v", captured.Year)
	}
	if captured.Book == nil || captured.Book.PageCount == nil || *captured.Book.PageCount != 183 {
		t.Errorf("expected page count 183, got %+v", captured.Book)
	}
	if captured.Audio != nil || captured.Video != nil {
		t.Error("only book details should be set")
	}

	messages := popTestFlash(t, rec)
	if len(messages) != 1 || messages[0].Level != flash.LevelSuccess || messages[0].Text != "Book added successfully." {
		t.Errorf("unexpected flash messages: %+v", messages)
	}
}

func TestAddSubmitServiceValidationShowsBanner(t *testing.T) {
	svc := &stubCatalogService{
		createFn: func(_ context.Context, _ catalog.CreateItemInput) (*models.MediaItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		},
	}
	h := newTestHandler(t, svc)

	form := url.Values{}
	form.Set("title", "x")

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodPost, "/add/book", map[string]string{"mediaType": "book"}, form)
	h.AddSubmit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "title is required") {
		t.Error("expected service validation message in the banner")
	}
}

func TestEditFormPrefillsStoredValues(t *testing.T) {
	itemID := uuid.New()
	svc := &stubCatalogService{
		getFn: func(_ context.Context, _ uuid.UUID) (*models.MediaItem, error) {
			return sampleBookItem(itemID), nil
		},
	}
	h := newTestHandler(t, svc)

	t.Run("prefill", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := pageRequest(http.MethodGet, "/edit/book/"+itemID.String(),
			map[string]string{"mediaType": "book", "itemID": itemID.String()}, nil)
		h.EditForm(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{`value="A Wizard of Earthsea"`, `value="1968"`, `value="Ursula K. Le Guin"`, "hardcover"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected body to contain %q", want)
			}
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := pageRequest(http.MethodGet, "/edit/audio/"+itemID.String(),
			map[string]string{"mediaType": "audio", "itemID": itemID.String()}, nil)
		h.EditForm(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestEditSubmitUpdatesAndRedirects(t *testing.T) {
	itemID := uuid.New()
	var captured catalog.UpdateItemInput
	svc := &stubCatalogService{
		getFn: func(_ context.Context, _ uuid.UUID) (*models.MediaItem, error) {
			return sampleBookItem(itemID), nil
		},
		updateFn: func(_ context.Context, id uuid.UUID, input catalog.UpdateItemInput) (*models.MediaItem, error) {
			if id != itemID {
				t.Errorf("expected update for %s, got %s", itemID, id)
			}
			captured = input
			updated := sampleBookItem(itemID)
			updated.Title = input.Title
			return updated, nil
		},
	}
	h := newTestHandler(t, svc)

	form := url.Values{}
	form.Set("title", "The Tombs of Atuan")
	form.Set("year", "1971")
	form.Set("author", "Ursula K. Le Guin")

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodPost, "/edit/book/"+itemID.String(),
		map[string]string{"mediaType": "book", "itemID": itemID.String()}, form)
	h.EditSubmit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/media/"+itemID.String() {
		t.Fatalf("expected redirect to detail page, got %q", loc)
	}
	if captured.Title != "The Tombs of Atuan" {
		t.Errorf("expected new title, got %q", captured.Title)
	}
	if captured.Year == nil || *captured.Year != 1971 {
		t.Errorf("expected year 1971, got %v", captured.Year)
	}

	messages := popTestFlash(t, rec)
	if len(messages) != 1 || messages[0].Text != "Book updated successfully." {
		t.Errorf("unexpected flash messages: %+v", messages)
	}
}

func TestDeleteRedirectsWithFlash(t *testing.T) {
	itemID := uuid.New()
	called := false
	svc := &stubCatalogService{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			called = true
			if id != itemID {
				t.Errorf("expected delete for %s, got %s", itemID, id)
			}
			return nil
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodPost, "/media/"+itemID.String()+"/delete",
		map[string]string{"itemID": itemID.String()}, nil)
	h.Delete(rec, req)

	if !called {
		t.Fatal("expected DeleteItem to be called")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/media" {
		t.Fatalf("expected redirect to listing, got %q", loc)
	}

	messages := popTestFlash(t, rec)
	if len(messages) != 1 || messages[0].Text != "Item deleted." {
		t.Errorf("unexpected flash messages: %+v", messages)
	}
}

func TestDeleteMissingItemRendersNotFound(t *testing.T) {
	itemID := uuid.New()
	svc := &stubCatalogService{
		deleteFn: func(_ context.Context, _ uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
		},
	}
	h := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodPost, "/media/"+itemID.String()+"/delete",
		map[string]string{"itemID": itemID.String()}, nil)
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListingFlashesRenderOnce(t *testing.T) {
	svc := &stubCatalogService{
		browseFn: func(_ context.Context, _ catalog.BrowseParams) (*catalog.BrowseResult, error) {
			return &catalog.BrowseResult{}, nil
		},
	}
	h := newTestHandler(t, svc)

	value, err := flash.Mint(testSecret, time.Now(), []flash.Message{{Level: flash.LevelSuccess, Text: "Book added successfully."}})
	if err != nil {
		t.Fatalf("minting flash cookie: %v", err)
	}

	rec := httptest.NewRecorder()
	req := pageRequest(http.MethodGet, "/media", nil, nil)
	req.AddCookie(&http.Cookie{Name: flash.CookieName, Value: value})
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), "Book added successfully.") {
		t.Error("expected flash message on the page")
	}

	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flash.CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie to be cleared after rendering")
	}
}

func TestOptionalFormInt(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		min     int
		want    *int
		wantErr bool
	}{
		{name: "empty means absent", raw: "", min: 0, want: nil},
		{name: "valid number", raw: "42", min: 0, want: intPtr(42)},
		{name: "not a number", raw: "abc", min: 0, wantErr: true},
		{name: "below minimum", raw: "0", min: 1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := map[string]string{}
			got := optionalFormInt(tc.raw, tc.min, "field", "Field", errs)

			if tc.wantErr {
				if len(errs) == 0 {
					t.Fatal("expected a field error")
				}
				return
			}
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %d", *got)
				}
				return
			}
			if got == nil || *got != *tc.want {
				t.Fatalf("expected %d, got %v", *tc.want, got)
			}
		})
	}
}

func intPtr(n int) *int {
	return &n
}

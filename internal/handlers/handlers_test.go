package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"notebase/internal/apperr"
	"notebase/internal/storage"
	storagemocks "notebase/internal/storage/mocks"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", fmt.Errorf("%w: bad", apperr.ErrInvalidInput), http.StatusBadRequest},
		{"not found", apperr.ErrNotFound, http.StatusNotFound},
		{"empty content", apperr.ErrEmptyContent, http.StatusUnprocessableEntity},
		{"embedding failure", fmt.Errorf("%w: upstream", apperr.ErrEmbedding), http.StatusBadGateway},
		{"generation failure", fmt.Errorf("%w: upstream", apperr.ErrGeneration), http.StatusBadGateway},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(rec, req, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("writeError(%v) status = %d, want %d", tt.err, rec.Code, tt.wantStatus)
			}
			var body errResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("writeError() empty error message")
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(rec, req, errors.New("dsn=user:hunter2@tcp"))
	if strings.Contains(rec.Body.String(), "hunter2") {
		t.Error("writeError() leaked internal error detail to the client")
	}
}

func notebookRouter(h *NotebookHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/notebooks", h.Create)
	r.Get("/api/notebooks/{id}", h.Get)
	r.Delete("/api/notebooks/{id}", h.Delete)
	r.Post("/api/notebooks/{id}/items/{itemID}", h.AddItem)
	return r
}

func TestNotebookHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	notebooks := storagemocks.NewMockNotebookStore(ctrl)
	notebooks.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, notebook *storage.Notebook) error {
			notebook.ID = 12
			return nil
		})

	h := NewNotebookHandler(notebooks, storagemocks.NewMockItemStore(ctrl), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notebooks", strings.NewReader(`{"title": "Go", "notes": "runtime"}`))

	notebookRouter(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var resp NotebookResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 12 || resp.Title != "Go" {
		t.Errorf("Create response = %+v", resp)
	}
}

func TestNotebookHandler_CreateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewNotebookHandler(storagemocks.NewMockNotebookStore(ctrl), storagemocks.NewMockItemStore(ctrl), nil)

	for _, body := range []string{`{}`, `{"title": ""}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/notebooks", strings.NewReader(body))
		notebookRouter(h).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Create(%q) status = %d, want 400", body, rec.Code)
		}
	}
}

func TestNotebookHandler_GetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	notebooks := storagemocks.NewMockNotebookStore(ctrl)
	notebooks.EXPECT().
		GetByID(gomock.Any(), int64(404)).
		Return(nil, apperr.ErrNotFound)

	h := NewNotebookHandler(notebooks, storagemocks.NewMockItemStore(ctrl), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notebooks/404", nil)

	notebookRouter(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Get status = %d, want 404", rec.Code)
	}
}

func TestNotebookHandler_GetWithItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	notebooks := storagemocks.NewMockNotebookStore(ctrl)
	items := storagemocks.NewMockItemStore(ctrl)

	notebooks.EXPECT().
		GetByID(gomock.Any(), int64(1)).
		Return(&storage.Notebook{ID: 1, Title: "Go"}, nil)
	notebooks.EXPECT().
		MemberIDs(gomock.Any(), int64(1)).
		Return([]int64{5}, nil)
	items.EXPECT().
		ListByIDs(gomock.Any(), []int64{5}).
		Return([]storage.Item{{ID: 5, Title: "member", Origin: storage.OriginInline}}, nil)

	h := NewNotebookHandler(notebooks, items, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notebooks/1", nil)

	notebookRouter(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Get status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var resp NotebookDetailResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != 5 {
		t.Errorf("Get items = %+v, want the member item", resp.Items)
	}
}

func TestNotebookHandler_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewNotebookHandler(storagemocks.NewMockNotebookStore(ctrl), storagemocks.NewMockItemStore(ctrl), nil)

	for _, path := range []string{"/api/notebooks/abc", "/api/notebooks/-1", "/api/notebooks/0"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		notebookRouter(h).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Get %s status = %d, want 400", path, rec.Code)
		}
	}
}

func TestNotebookHandler_AddItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	notebooks := storagemocks.NewMockNotebookStore(ctrl)
	notebooks.EXPECT().
		AddItem(gomock.Any(), int64(2), int64(9)).
		Return(nil)

	h := NewNotebookHandler(notebooks, storagemocks.NewMockItemStore(ctrl), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notebooks/2/items/9", nil)

	notebookRouter(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("AddItem status = %d, want 204: %s", rec.Code, rec.Body)
	}
}

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr bool
	}{
		{"valid", SearchRequest{Query: "go scheduler", Limit: 10}, false},
		{"zero limit ok", SearchRequest{Query: "go"}, false},
		{"empty query", SearchRequest{Limit: 10}, true},
		{"limit too large", SearchRequest{Query: "go", Limit: 200}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScrapeRequest_Validate(t *testing.T) {
	if err := (&ScrapeRequest{URL: "https://example.com/post"}).Validate(); err != nil {
		t.Errorf("Validate() valid url error = %v", err)
	}
	if err := (&ScrapeRequest{URL: "not a url"}).Validate(); err == nil {
		t.Error("Validate() accepted a malformed url")
	}
	if err := (&ScrapeRequest{}).Validate(); err == nil {
		t.Error("Validate() accepted an empty url")
	}
}

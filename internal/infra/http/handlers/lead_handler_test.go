package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
	"github.com/leadgen-io/leadgen-api/internal/usecase"
)

// stubLeadRepo lets each test script just the repository calls its route
// exercises; anything else failing loudly is a test bug.
type stubLeadRepo struct {
	list        func(f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error)
	getByID     func(id int64) (*entity.Lead, error)
	emailExists func(email string, excludeID int64) (bool, error)
	create      func(lead *entity.Lead) (int64, error)
	update      func(id int64, upd entity.LeadUpdate) (*entity.Lead, error)
	delete      func(id int64) (bool, error)
	bulkDelete  func(ids []int64) (int64, error)
	recent      func(limit int) ([]*entity.Lead, error)
}

func (s *stubLeadRepo) List(_ context.Context, f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error) {
	return s.list(f, page, perPage)
}

func (s *stubLeadRepo) GetByID(_ context.Context, id int64) (*entity.Lead, error) {
	return s.getByID(id)
}

func (s *stubLeadRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	return s.emailExists(email, excludeID)
}

func (s *stubLeadRepo) Create(_ context.Context, lead *entity.Lead) (int64, error) {
	return s.create(lead)
}

func (s *stubLeadRepo) Update(_ context.Context, id int64, upd entity.LeadUpdate) (*entity.Lead, error) {
	return s.update(id, upd)
}

func (s *stubLeadRepo) Delete(_ context.Context, id int64) (bool, error) {
	return s.delete(id)
}

func (s *stubLeadRepo) BulkDelete(_ context.Context, ids []int64) (int64, error) {
	return s.bulkDelete(ids)
}

func (s *stubLeadRepo) Recent(_ context.Context, limit int) ([]*entity.Lead, error) {
	return s.recent(limit)
}

func (s *stubLeadRepo) InTx(_ context.Context, fn func(entity.LeadWriter) error) error {
	return fn(s)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, *int64, string, string) {}

func newTestRouter(repo *stubLeadRepo) http.Handler {
	zlog := zap.NewNop()
	manage := usecase.NewManageLeadsUseCase(repo, nopAudit{}, nil, zlog)
	imp := usecase.NewImportLeadsUseCase(repo, nopAudit{}, zlog)
	exp := usecase.NewExportLeadsUseCase(repo)
	h := NewLeadHandler(manage, imp, exp, zlog)

	r := chi.NewRouter()
	r.Get("/api/leads", h.HandleList)
	r.Post("/api/leads", h.HandleCreate)
	r.Delete("/api/leads", h.HandleBulkDelete)
	r.Get("/api/leads/export", h.HandleExport)
	r.Post("/api/leads/import", h.HandleImport)
	r.Get("/api/leads/{id}", h.HandleGet)
	r.Put("/api/leads/{id}", h.HandleUpdate)
	r.Delete("/api/leads/{id}", h.HandleDelete)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleList_EnvelopeAndFilters(t *testing.T) {
	repo := &stubLeadRepo{
		list: func(f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error) {
			assert.Equal(t, "contacted", f.Status)
			assert.Equal(t, "acme", f.Search)
			require.NotNil(t, f.IsVerified)
			assert.True(t, *f.IsVerified)
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, perPage)

			return &entity.LeadPage{
				Data:       []*entity.Lead{{ID: 21, Name: "Alice", Email: "alice@example.com"}},
				Total:      45,
				Page:       2,
				PerPage:    10,
				TotalPages: 5,
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodGet,
		"/api/leads?status=contacted&search=acme&is_verified=true&page=2&per_page=10", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
		Meta    struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 45, body.Meta.Total)
	assert.Equal(t, 5, body.Meta.TotalPages)
}

func TestHandleCreate_Success(t *testing.T) {
	repo := &stubLeadRepo{
		emailExists: func(email string, excludeID int64) (bool, error) { return false, nil },
		create:      func(lead *entity.Lead) (int64, error) { return 7, nil },
		getByID: func(id int64) (*entity.Lead, error) {
			return &entity.Lead{ID: id, Name: "Alice", Email: "alice@example.com", Status: entity.StatusNew}, nil
		},
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodPost, "/api/leads",
		`{"name":"Alice","email":"alice@example.com"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lead created successfully")
}

func TestHandleCreate_DuplicateEmailIsConflict(t *testing.T) {
	repo := &stubLeadRepo{
		emailExists: func(email string, excludeID int64) (bool, error) { return true, nil },
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodPost, "/api/leads",
		`{"name":"Alice","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleCreate_ValidationFailureIsBadRequest(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubLeadRepo{}), http.MethodPost, "/api/leads",
		`{"name":"Alice"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}

func TestHandleGet_BadID(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubLeadRepo{}), http.MethodGet, "/api/leads/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGet_NotFound(t *testing.T) {
	repo := &stubLeadRepo{
		getByID: func(id int64) (*entity.Lead, error) { return nil, entity.ErrNotFound },
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/leads/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdate_EmptyBody(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubLeadRepo{}), http.MethodPut, "/api/leads/7", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data provided")
}

func TestHandleDelete_Missing(t *testing.T) {
	repo := &stubLeadRepo{
		getByID: func(id int64) (*entity.Lead, error) { return nil, entity.ErrNotFound },
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodDelete, "/api/leads/99", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "lead not found")
}

func TestHandleBulkDelete_ReportsActualCount(t *testing.T) {
	repo := &stubLeadRepo{
		bulkDelete: func(ids []int64) (int64, error) {
			assert.Equal(t, []int64{1, 2, 999}, ids)
			return 2, nil
		},
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodDelete, "/api/leads",
		`{"ids":[1,2,999]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deleted 2 leads")
}

func TestHandleImport_ReportsTallies(t *testing.T) {
	seen := map[string]bool{}
	repo := &stubLeadRepo{
		emailExists: func(email string, excludeID int64) (bool, error) { return seen[email], nil },
		create: func(lead *entity.Lead) (int64, error) {
			seen[lead.Email] = true
			return int64(len(seen)), nil
		},
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodPost, "/api/leads/import",
		`{"source":"Webinar","leads":[
			{"name":"A","email":"a@example.com"},
			{"name":"A again","email":"a@example.com"},
			{"name":"B","email":"b@example.com"}
		]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Imported 2 leads, skipped 1 duplicates")
}

func TestHandleExport_CSVAttachment(t *testing.T) {
	repo := &stubLeadRepo{
		list: func(f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error) {
			return &entity.LeadPage{Data: []*entity.Lead{}}, nil
		},
	}

	rec := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/leads/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ID,Name,Email"))
}

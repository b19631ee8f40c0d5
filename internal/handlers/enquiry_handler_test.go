package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/repository"
)

type mockEnquiryRepo struct {
	updatedFields map[string]any
	updatedTable  string
}

var _ repository.EnquiryRepository = (*mockEnquiryRepo)(nil)

func (m *mockEnquiryRepo) CreateHome(ctx context.Context, req *models.HomeEnquiryRequest) (int64, error) {
	return 11, nil
}
func (m *mockEnquiryRepo) CreateKB(ctx context.Context, req *models.KBEnquiryRequest) (int64, error) {
	return 12, nil
}
func (m *mockEnquiryRepo) CreateCustom(ctx context.Context, req *models.CustomEnquiryRequest) (int64, error) {
	return 13, nil
}
func (m *mockEnquiryRepo) ListByTable(ctx context.Context, table string) ([]repository.EnquiryRow, error) {
	return []repository.EnquiryRow{{"enquiry_id": int64(1), "table": table}}, nil
}
func (m *mockEnquiryRepo) Related(ctx context.Context, userID, phone, email string) ([]repository.EnquiryRow, error) {
	return []repository.EnquiryRow{}, nil
}
func (m *mockEnquiryRepo) Update(ctx context.Context, table string, id int64, fields map[string]any) (repository.EnquiryRow, error) {
	if id == 404 {
		return nil, sql.ErrNoRows
	}
	m.updatedTable = table
	m.updatedFields = fields
	return repository.EnquiryRow{"enquiry_id": id}, nil
}
func (m *mockEnquiryRepo) Delete(ctx context.Context, table string, id int64) error {
	if id == 404 {
		return sql.ErrNoRows
	}
	return nil
}

func enquiryRouter(h *EnquiryHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/enquiries", h.CreateHome)
	r.Post("/kb_enquiries", h.CreateKB)
	r.Post("/custom_enquiries", h.CreateCustom)
	r.Get("/enquiries", h.List)
	r.Get("/enquiries/related", h.Related)
	r.Put("/enquiries/{table}/{id}", h.Update)
	r.Delete("/enquiries/{table}/{id}", h.Delete)
	return r
}

func TestCreateHomeEnquiry(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	body := `{"user_id":5,"email":"a@b.c","bhk_type":"3BHK"}`
	req := httptest.NewRequest(http.MethodPost, "/enquiries", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "Enquiry saved successfully" {
		t.Fatalf("unexpected message %v", resp["message"])
	}
}

func TestCreateHomeEnquiryMissingFields(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	req := httptest.NewRequest(http.MethodPost, "/enquiries", strings.NewReader(`{"user_id":5}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListEnquiriesRejectsUnknownTable(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	for _, table := range []string{"", "users", "home;drop"} {
		req := httptest.NewRequest(http.MethodGet, "/enquiries?table="+table, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("table %q: expected 400 got %d", table, w.Code)
		}
		var resp map[string]any
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "Invalid or missing table. Use home|custom|kb" {
			t.Fatalf("unexpected error %v", resp["error"])
		}
	}
}

func TestListEnquiriesByTable(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/enquiries?table=kb", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0]["table"] != "kb" {
		t.Fatalf("unexpected items %v", resp.Items)
	}
}

func TestRelatedEnquiriesRequiresIdentifier(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/enquiries/related", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "Provide user_id or phone or email as query params" {
		t.Fatalf("unexpected error %v", resp["error"])
	}

	req = httptest.NewRequest(http.MethodGet, "/enquiries/related?phone=990", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateEnquiryFiltersEditableColumns(t *testing.T) {
	repo := &mockEnquiryRepo{}
	r := enquiryRouter(NewEnquiryHandler(repo))

	body := `{"city":"Pune","created_at":"hax","enquiry_id":999}`
	req := httptest.NewRequest(http.MethodPut, "/enquiries/home/5", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if len(repo.updatedFields) != 1 || repo.updatedFields["city"] != "Pune" {
		t.Fatalf("expected only city to pass the allow-list, got %v", repo.updatedFields)
	}
	if repo.updatedTable != "home" {
		t.Fatalf("unexpected table %q", repo.updatedTable)
	}
}

func TestUpdateEnquiryNoEditableFields(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	body := `{"created_at":"hax"}`
	req := httptest.NewRequest(http.MethodPut, "/enquiries/home/5", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "No editable fields provided" {
		t.Fatalf("unexpected error %v", resp["error"])
	}
}

func TestDeleteEnquiry(t *testing.T) {
	r := enquiryRouter(NewEnquiryHandler(&mockEnquiryRepo{}))

	req := httptest.NewRequest(http.MethodDelete, "/enquiries/custom/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/enquiries/custom/404", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

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

type mockProjectRepo struct {
	projects map[int64]*models.Project
	lastSeen repository.ProjectFilter
	nextID   int64
}

var _ repository.ProjectRepository = (*mockProjectRepo)(nil)

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: map[int64]*models.Project{}, nextID: 1}
}

func (m *mockProjectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]*models.Project, error) {
	m.lastSeen = filter
	var out []*models.Project
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProjectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, p := range m.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockProjectRepo) Create(ctx context.Context, p *models.Project) (int64, error) {
	id := m.nextID
	m.nextID++
	p.ID = id
	m.projects[id] = p
	return id, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, id int64, p *models.Project) error {
	if _, ok := m.projects[id]; !ok {
		return sql.ErrNoRows
	}
	p.ID = id
	m.projects[id] = p
	return nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.projects[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) EnsureImportColumns(ctx context.Context) error { return nil }

func projectRouter(h *ProjectHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/projects", h.List)
	r.Get("/projects/{idOrSlug}", h.Get)
	r.Post("/projects", h.Create)
	r.Put("/projects/{id}", h.Update)
	r.Delete("/projects/{id}", h.Delete)
	return r
}

func TestCreateProjectDerivesSlug(t *testing.T) {
	repo := newMockProjectRepo()
	r := projectRouter(NewProjectHandler(repo))

	body := `{"title":"Lotus Heights","city":"Bengaluru"}`
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["slug"] != "lotus-heights" {
		t.Fatalf("expected derived slug, got %v", resp["slug"])
	}
}

func TestCreateProjectRequiresTitleAndCity(t *testing.T) {
	r := projectRouter(NewProjectHandler(newMockProjectRepo()))

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"Only Title"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "title and city are required" {
		t.Fatalf("unexpected error %v", resp["error"])
	}
}

func TestGetProjectBySlugFallsBackFromID(t *testing.T) {
	repo := newMockProjectRepo()
	repo.projects[7] = &models.Project{ID: 7, Slug: "lotus-heights", Title: "Lotus Heights", City: "Bengaluru"}
	r := projectRouter(NewProjectHandler(repo))

	for _, key := range []string{"7", "lotus-heights"} {
		req := httptest.NewRequest(http.MethodGet, "/projects/"+key, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("lookup by %q: expected 200 got %d (%s)", key, w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/no-such-slug", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "Not found" {
		t.Fatalf("unexpected error %v", resp["error"])
	}
}

func TestListProjectsParsesFilters(t *testing.T) {
	repo := newMockProjectRepo()
	r := projectRouter(NewProjectHandler(repo))

	req := httptest.NewRequest(http.MethodGet,
		"/projects?q=lotus&city=Bengaluru&configuration=3BHK&page=2&limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	f := repo.lastSeen
	if f.Query != "lotus" || f.City != "Bengaluru" || f.Configuration != "3BHK" || f.Page != 2 || f.Limit != 10 {
		t.Fatalf("filter not parsed: %+v", f)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["items"]; !ok {
		t.Fatalf("expected items field, got %v", resp)
	}
}

func TestDeleteProjectNotFound(t *testing.T) {
	r := projectRouter(NewProjectHandler(newMockProjectRepo()))

	req := httptest.NewRequest(http.MethodDelete, "/projects/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateProjectReturnsRow(t *testing.T) {
	repo := newMockProjectRepo()
	repo.projects[3] = &models.Project{ID: 3, Slug: "old", Title: "Old", City: "Pune"}
	r := projectRouter(NewProjectHandler(repo))

	body := `{"title":"New Name","city":"Pune"}`
	req := httptest.NewRequest(http.MethodPut, "/projects/3", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Project *models.Project `json:"project"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Project == nil || resp.Project.Title != "New Name" || resp.Project.Slug != "new-name" {
		t.Fatalf("unexpected project %+v", resp.Project)
	}
}

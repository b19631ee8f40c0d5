package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/repository"
)

type ProjectHandler struct {
	repo      repository.ProjectRepository
	validator *validator.Validate
}

func NewProjectHandler(repo repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

// List is the public catalogue endpoint.
// Query params: q, city, property_type, location_area, configuration, page, limit.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProjectFilter{
		Query:         q.Get("q"),
		City:          q.Get("city"),
		PropertyType:  q.Get("property_type"),
		LocationArea:  q.Get("location_area"),
		Configuration: q.Get("configuration"),
		Page:          intParam(q.Get("page"), 1),
		Limit:         intParam(q.Get("limit"), 24),
	}

	projects, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("list projects failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": projects, "page": filter.Page})
}

// Get looks a project up by numeric id or, failing that, by slug.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")

	var project *models.Project
	var err error
	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil {
		project, err = h.repo.GetByID(r.Context(), id)
	} else {
		project, err = h.repo.GetBySlug(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("key", key).Msg("get project failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "title and city are required")
		return
	}

	project := req.ToProject()
	id, err := h.repo.Create(r.Context(), project)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("insert project failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "slug": project.Slug})
}

// Update replaces all mutable fields of the row in one statement.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var req models.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "title and city are required")
		return
	}

	if err := h.repo.Update(r.Context(), id, req.ToProject()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("update project failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	project, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("read back project failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("delete project failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted"})
}

func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

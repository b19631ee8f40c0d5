package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/a10interiors/a10-backend/internal/db"
	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/repository"
)

type AdminHandler struct {
	repo      repository.AdminRepository
	validator *validator.Validate
}

func NewAdminHandler(repo repository.AdminRepository) *AdminHandler {
	return &AdminHandler{repo: repo, validator: validator.New()}
}

// normalizePhone stores digits only, keeping a leading + when present.
func normalizePhone(phone string) string {
	s := strings.TrimSpace(phone)
	hasPlus := strings.HasPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if hasPlus {
		return "+" + b.String()
	}
	return b.String()
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.repo.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list admins failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if admins == nil {
		admins = []*models.Admin{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": admins})
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "phone required")
		return
	}

	admin, err := h.repo.UpsertByPhone(r.Context(), normalizePhone(req.Phone), req.Name)
	if err != nil {
		log.Error().Err(err).Msg("upsert admin failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"admin": admin})
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id required")
		return
	}

	var req models.AdminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Phone == nil && req.Name == nil {
		writeJSONError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Phone != nil {
		normalized := normalizePhone(*req.Phone)
		req.Phone = &normalized
	}

	admin, err := h.repo.Update(r.Context(), id, req.Phone, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeJSONError(w, http.StatusNotFound, "Not found")
		case db.IsUniqueViolation(err):
			writeJSONError(w, http.StatusConflict, "phone already exists")
		default:
			log.Error().Err(err).Int64("id", id).Msg("update admin failed")
			writeJSONError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": admin})
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("delete admin failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

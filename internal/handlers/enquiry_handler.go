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

	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/repository"
)

type EnquiryHandler struct {
	repo      repository.EnquiryRepository
	validator *validator.Validate
}

func NewEnquiryHandler(repo repository.EnquiryRepository) *EnquiryHandler {
	return &EnquiryHandler{repo: repo, validator: validator.New()}
}

// CreateHome is the public home-interiors enquiry form.
func (h *EnquiryHandler) CreateHome(w http.ResponseWriter, r *http.Request) {
	var req models.HomeEnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	id, err := h.repo.CreateHome(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("insert home enquiry failed")
		writeJSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Enquiry saved successfully",
		"enquiry_id": id,
	})
}

func (h *EnquiryHandler) CreateKB(w http.ResponseWriter, r *http.Request) {
	var req models.KBEnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "user_id and type are required")
		return
	}

	id, err := h.repo.CreateKB(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("insert kb enquiry failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "KB enquiry saved"})
}

func (h *EnquiryHandler) CreateCustom(w http.ResponseWriter, r *http.Request) {
	var req models.CustomEnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	id, err := h.repo.CreateCustom(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("insert custom enquiry failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Custom enquiry saved"})
}

// List returns one logical enquiry table. The table selector is restricted to
// the home|custom|kb allow-list.
func (h *EnquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if !repository.IsEnquiryTable(table) {
		writeJSONError(w, http.StatusBadRequest, "Invalid or missing table. Use home|custom|kb")
		return
	}

	items, err := h.repo.ListByTable(r.Context(), table)
	if err != nil {
		log.Error().Err(err).Str("table", table).Msg("list enquiries failed")
		writeJSONError(w, http.StatusInternalServerError, "server error")
		return
	}
	if items == nil {
		items = []repository.EnquiryRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Related finds enquiries across all three tables for one customer,
// identified by user_id, phone or email.
func (h *EnquiryHandler) Related(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	phone := q.Get("phone")
	email := q.Get("email")
	if userID == "" && phone == "" && email == "" {
		writeJSONError(w, http.StatusBadRequest, "Provide user_id or phone or email as query params")
		return
	}

	items, err := h.repo.Related(r.Context(), userID, phone, email)
	if err != nil {
		log.Error().Err(err).Msg("related enquiries failed")
		writeJSONError(w, http.StatusInternalServerError, "server error")
		return
	}
	if items == nil {
		items = []repository.EnquiryRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update accepts a sparse body and applies only columns editable on the
// selected table.
func (h *EnquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimSpace(chi.URLParam(r, "table"))
	if !repository.IsEnquiryTable(table) {
		writeJSONError(w, http.StatusBadRequest, "Invalid table")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string]any, len(payload))
	for col, v := range payload {
		if repository.IsEditableEnquiryField(table, col) {
			fields[col] = v
		}
	}
	if len(fields) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No editable fields provided")
		return
	}

	updated, err := h.repo.Update(r.Context(), table, id, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Enquiry not found or nothing changed")
			return
		}
		log.Error().Err(err).Str("table", table).Int64("id", id).Msg("update enquiry failed")
		writeJSONError(w, http.StatusInternalServerError, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": updated})
}

func (h *EnquiryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimSpace(chi.URLParam(r, "table"))
	if !repository.IsEnquiryTable(table) {
		writeJSONError(w, http.StatusBadRequest, "Invalid table")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := h.repo.Delete(r.Context(), table, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("table", table).Int64("id", id).Msg("delete enquiry failed")
		writeJSONError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

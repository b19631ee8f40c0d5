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

type TestimonialHandler struct {
	repo      repository.TestimonialRepository
	validator *validator.Validate
}

func NewTestimonialHandler(repo repository.TestimonialRepository) *TestimonialHandler {
	return &TestimonialHandler{repo: repo, validator: validator.New()}
}

func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TestimonialFilter{
		ServiceType: q.Get("service_type"),
		Page:        intParam(q.Get("page"), 1),
		Limit:       intParam(q.Get("limit"), 50),
	}
	if raw := q.Get("rating"); raw != "" {
		if rating, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.Rating = &rating
		}
	}

	items, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("list testimonials failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if items == nil {
		items = []*models.Testimonial{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Review = strings.TrimSpace(req.Review)
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "name and review are required")
		return
	}

	t := &models.Testimonial{
		Name:          req.Name,
		Review:        req.Review,
		CustomerType:  req.CustomerType,
		CustomerImage: req.CustomerImage,
		CustomerPhone: req.CustomerPhone,
		Rating:        models.ValidRating(req.Rating),
		ServiceType:   req.ServiceType,
	}
	id, err := h.repo.Create(r.Context(), t)
	if err != nil {
		log.Error().Err(err).Msg("insert testimonial failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	created, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("read back testimonial failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"testimonial": created})
}

// testimonialUpdateRequest distinguishes absent fields from explicit nulls so
// updates merge field-wise with the existing row.
type testimonialUpdateRequest struct {
	Name          *string          `json:"name"`
	Review        *string          `json:"review"`
	CustomerType  *string          `json:"customer_type"`
	CustomerImage *string          `json:"customer_image"`
	CustomerPhone *string          `json:"customer_phone"`
	Rating        *int64           `json:"rating"`
	ServiceType   *string          `json:"service_type"`
	IsHome        *bool            `json:"isHome"`
	Page          *json.RawMessage `json:"page"`
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("get testimonial failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var req testimonialUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Review != nil {
		updated.Review = strings.TrimSpace(*req.Review)
	}
	if req.CustomerType != nil {
		updated.CustomerType = req.CustomerType
	}
	if req.CustomerImage != nil {
		updated.CustomerImage = req.CustomerImage
	}
	if req.CustomerPhone != nil {
		updated.CustomerPhone = req.CustomerPhone
	}
	if req.Rating != nil {
		updated.Rating = models.ValidRating(req.Rating)
	}
	if req.ServiceType != nil {
		updated.ServiceType = req.ServiceType
	}
	if req.IsHome != nil {
		updated.IsHome = *req.IsHome
	}
	if req.Page != nil {
		// explicit null clears the page assignment
		var page *string
		if string(*req.Page) != "null" {
			var s string
			if err := json.Unmarshal(*req.Page, &s); err != nil {
				writeJSONError(w, http.StatusBadRequest, "Invalid page value")
				return
			}
			s = strings.TrimSpace(s)
			if s != "" {
				page = &s
			}
		}
		updated.Page = page
	}

	// a testimonial pinned to a page must advertise the matching service
	if updated.Page != nil {
		if updated.ServiceType == nil || !strings.EqualFold(*updated.Page, *updated.ServiceType) {
			writeJSONError(w, http.StatusBadRequest, "Service type must match the page")
			return
		}
	}
	if updated.Name == "" || updated.Review == "" {
		writeJSONError(w, http.StatusBadRequest, "name and review are required")
		return
	}

	if err := h.repo.Update(r.Context(), id, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("update testimonial failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("read back testimonial failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"testimonial": result})
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Testimonial not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("delete testimonial failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted successfully"})
}

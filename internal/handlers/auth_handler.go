package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/a10interiors/a10-backend/internal/middleware"
	"github.com/a10interiors/a10-backend/internal/repository"
)

type AuthHandler struct {
	users  repository.UserRepository
	admins repository.AdminRepository
}

func NewAuthHandler(users repository.UserRepository, admins repository.AdminRepository) *AuthHandler {
	return &AuthHandler{users: users, admins: admins}
}

// Exchange bootstraps an application user from a verified principal and
// denormalizes admin status into the response. Runs behind Authenticate.
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if principal.Phone == "" {
		writeJSONError(w, http.StatusBadRequest, "No phone number in token")
		return
	}

	var name *string
	if principal.Name != "" {
		name = &principal.Name
	}
	user, err := h.users.UpsertByUID(r.Context(), principal.Subject, name, &principal.Phone)
	if err != nil {
		log.Error().Err(err).Str("uid", principal.Subject).Msg("user upsert failed")
		writeJSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	isAdmin := true
	if _, err := h.admins.GetByPhone(r.Context(), principal.Phone); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("admin lookup failed")
			writeJSONError(w, http.StatusInternalServerError, "Database error")
			return
		}
		isAdmin = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":      user.ID,
			"uid":     user.UID,
			"phone":   user.Phone,
			"name":    user.Name,
			"isAdmin": isAdmin,
		},
	})
}

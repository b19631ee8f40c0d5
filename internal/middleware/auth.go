package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/repository"
	"github.com/a10interiors/a10-backend/internal/services"
)

type ctxKey string

const (
	ctxPrincipal ctxKey = "principal"
	ctxAdmin     ctxKey = "admin"
)

// PrincipalFrom returns the verified caller identity, when Authenticate ran.
func PrincipalFrom(ctx context.Context) (*services.Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(*services.Principal)
	return p, ok
}

// WithPrincipal attaches a verified identity to the context. Authenticate
// uses it; tests for handlers running behind Authenticate do too.
func WithPrincipal(ctx context.Context, p *services.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// AdminFrom returns the admin row attached by RequireAdmin.
func AdminFrom(ctx context.Context) (*models.Admin, bool) {
	a, ok := ctx.Value(ctxAdmin).(*models.Admin)
	return a, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}

// Authenticate extracts the bearer credential, verifies it against the
// identity backend and attaches the resulting principal to the request
// context. Verification failure halts the chain with 401.
func Authenticate(verifier services.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization header")
				return
			}

			principal, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				log.Warn().Err(err).Msg("token verification failed")
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin gates a route on the phone allow-list. It assumes
// Authenticate ran earlier in the chain.
func RequireAdmin(admins repository.AdminRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if principal.Phone == "" {
				writeError(w, http.StatusForbidden, "No phone number")
				return
			}

			admin, err := admins.GetByPhone(r.Context(), principal.Phone)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusForbidden, "Admin only")
					return
				}
				log.Error().Err(err).Msg("admin lookup failed")
				writeError(w, http.StatusInternalServerError, "Database error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdmin, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

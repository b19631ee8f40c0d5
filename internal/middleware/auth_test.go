package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/services"
)

type fakeVerifier struct {
	principal *services.Principal
	err       error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*services.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.principal, nil
}

type fakeAdminRepo struct {
	admins map[string]*models.Admin
}

func (f *fakeAdminRepo) List(ctx context.Context) ([]*models.Admin, error) { return nil, nil }
func (f *fakeAdminRepo) GetByPhone(ctx context.Context, phone string) (*models.Admin, error) {
	if a, ok := f.admins[phone]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}
func (f *fakeAdminRepo) UpsertByPhone(ctx context.Context, phone string, name *string) (*models.Admin, error) {
	return nil, nil
}
func (f *fakeAdminRepo) Update(ctx context.Context, id int64, phone, name *string) (*models.Admin, error) {
	return nil, nil
}
func (f *fakeAdminRepo) Delete(ctx context.Context, id int64) error { return nil }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v (%s)", err, w.Body.String())
	}
	return body["error"]
}

func TestAuthenticateMissingHeader(t *testing.T) {
	h := Authenticate(&fakeVerifier{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Missing Authorization header" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	h := Authenticate(&fakeVerifier{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Invalid Authorization header" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	h := Authenticate(&fakeVerifier{err: errors.New("nope")})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Invalid token" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	verifier := &fakeVerifier{principal: &services.Principal{Subject: "uid-1", Phone: "+91990"}}

	var seen *services.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Authenticate(verifier)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if seen == nil || seen.Subject != "uid-1" {
		t.Fatalf("principal not attached: %+v", seen)
	}
}

func TestRequireAdminChain(t *testing.T) {
	admins := &fakeAdminRepo{admins: map[string]*models.Admin{
		"+91990": {ID: 1, Phone: "+91990"},
	}}

	cases := []struct {
		name       string
		principal  *services.Principal
		wantStatus int
		wantError  string
	}{
		{"no principal", nil, http.StatusUnauthorized, "Not authenticated"},
		{"no phone", &services.Principal{Subject: "u"}, http.StatusForbidden, "No phone number"},
		{"not listed", &services.Principal{Subject: "u", Phone: "+000"}, http.StatusForbidden, "Admin only"},
		{"listed", &services.Principal{Subject: "u", Phone: "+91990"}, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seenAdmin *models.Admin
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenAdmin, _ = AdminFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			h := RequireAdmin(admins)(inner)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.principal != nil {
				ctx := context.WithValue(req.Context(), ctxPrincipal, tc.principal)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d got %d (%s)", tc.wantStatus, w.Code, w.Body.String())
			}
			if tc.wantError != "" {
				if msg := errorBody(t, w); msg != tc.wantError {
					t.Fatalf("unexpected error %q", msg)
				}
			} else if seenAdmin == nil || seenAdmin.ID != 1 {
				t.Fatalf("admin not attached: %+v", seenAdmin)
			}
		})
	}
}

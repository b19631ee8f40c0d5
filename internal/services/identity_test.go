package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHMACVerifierRoundTrip(t *testing.T) {
	v := NewHMACVerifier("dev-secret")
	signed := signHS256(t, "dev-secret", jwt.MapClaims{
		"sub":          "uid-123",
		"phone_number": "+919900112233",
		"name":         "Asha",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	p, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", p.Subject)
	assert.Equal(t, "+919900112233", p.Phone)
	assert.Equal(t, "Asha", p.Name)
}

func TestHMACVerifierRejectsBadSignature(t *testing.T) {
	v := NewHMACVerifier("dev-secret")
	signed := signHS256(t, "other-secret", jwt.MapClaims{
		"sub": "uid-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assert.Error(t, err)
}

func TestHMACVerifierRejectsExpiredToken(t *testing.T) {
	v := NewHMACVerifier("dev-secret")
	signed := signHS256(t, "dev-secret", jwt.MapClaims{
		"sub": "uid-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assert.Error(t, err)
}

func TestHMACVerifierRequiresSubject(t *testing.T) {
	v := NewHMACVerifier("dev-secret")
	signed := signHS256(t, "dev-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assert.Error(t, err)
}

func TestIdentityClientVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/token:verify", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["token"] != "good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"sub":          "uid-456",
			"phone_number": "+918800445566",
			"name":         "Ravi",
		})
	}))
	defer srv.Close()

	c := NewIdentityClient(srv.URL, time.Second)

	p, err := c.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-456", p.Subject)
	assert.Equal(t, "+918800445566", p.Phone)

	_, err = c.Verify(context.Background(), "bad-token")
	assert.Error(t, err)

	_, err = c.Verify(context.Background(), "  ")
	assert.Error(t, err)
}

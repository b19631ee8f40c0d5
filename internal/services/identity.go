package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/a10interiors/a10-backend/internal/config"
)

// Principal is the verified caller identity derived from a bearer credential.
type Principal struct {
	Subject string
	Phone   string
	Name    string
}

// TokenVerifier exchanges a bearer credential for a Principal. Verification
// failure means the request is unauthenticated.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// NewVerifier picks the identity backend: the external identity service when
// configured, otherwise local HS256 verification for development.
func NewVerifier(cfg *config.Config) TokenVerifier {
	if cfg.IdentityBaseURL != "" {
		return NewIdentityClient(cfg.IdentityBaseURL, cfg.IdentityTimeout)
	}
	return &HMACVerifier{secret: []byte(cfg.JWTSecret)}
}

// IdentityClient verifies tokens against an external identity service.
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &IdentityClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *IdentityClient) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

type identityLookupResponse struct {
	Sub         string `json:"sub"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

func (c *IdentityClient) Verify(ctx context.Context, token string) (*Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("empty token")
	}

	payload, _ := json.Marshal(map[string]string{"token": token})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/token:verify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("identity service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service rejected token (status %d)", resp.StatusCode)
	}

	var lookup identityLookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if lookup.Sub == "" {
		return nil, errors.New("identity response missing subject")
	}

	return &Principal{
		Subject: lookup.Sub,
		Phone:   lookup.PhoneNumber,
		Name:    lookup.Name,
	}, nil
}

// HMACVerifier validates HS256-signed tokens locally. Development only; the
// claims mirror what the identity service returns (sub, phone_number, name).
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(ctx context.Context, tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil || token == nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("invalid token subject")
	}
	phone, _ := claims["phone_number"].(string)
	name, _ := claims["name"].(string)

	return &Principal{Subject: sub, Phone: phone, Name: name}, nil
}

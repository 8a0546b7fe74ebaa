package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, expiresIn time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/entry", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestBearerAuth_ValidToken(t *testing.T) {
	secret := []byte("test-secret")
	handler := BearerAuth(secret)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(signToken(t, secret, time.Hour)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuth_Rejections(t *testing.T) {
	secret := []byte("test-secret")
	handler := BearerAuth(secret)(okHandler())

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing header", func(r *http.Request) {}},
		{"not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
		{"empty token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }},
		{"wrong secret", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret"), time.Hour))
		}},
		{"expired", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, secret, -time.Hour))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/entry", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestBearerAuth_SkipPaths(t *testing.T) {
	handler := BearerAuthWithConfig(AuthConfig{
		Secret:    []byte("test-secret"),
		SkipPaths: []string{"/health"},
	})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

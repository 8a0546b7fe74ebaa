package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig holds configuration for the bearer token middleware
type AuthConfig struct {
	// Secret is the HMAC key tokens are signed with
	Secret []byte
	// SkipPaths is a list of paths to skip authentication
	SkipPaths []string
}

// BearerAuth creates a middleware that requires a valid HS256 bearer
// token on every request it wraps. Intended for write endpoints when
// the cookbook runs with admission restricted to trusted clients.
func BearerAuth(secret []byte) Middleware {
	return BearerAuthWithConfig(AuthConfig{Secret: secret})
}

// BearerAuthWithConfig creates a bearer token middleware with custom configuration
func BearerAuthWithConfig(config AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skipPath := range config.SkipPaths {
				if r.URL.Path == skipPath {
					next.ServeHTTP(w, r)
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}

			if err := validateToken(parts[1], config.Secret); err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validateToken parses and verifies an HS256 token against the secret
func validateToken(tokenString string, secret []byte) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// Reject any token signed with a different method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("token is not valid")
	}
	return nil
}

package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/blogfusion/core"
)

// Middleware validates the bearer token and injects the principal into
// the request context. Requests without a valid token get 401.
func Middleware(service *TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				core.Error(w, core.ErrUnauthorized)
				return
			}

			principal, err := service.Parse(token)
			if err != nil {
				core.Error(w, core.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}

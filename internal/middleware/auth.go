package middleware

import (
	"net/http"
	"strings"

	handlers "devconnector/internal/handler"
	"devconnector/internal/service"
)

const tokenHeader = "x-auth-token"

// tokenFromRequest prefers x-auth-token and falls back to a Bearer
// Authorization header.
func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(tokenHeader)); token != "" {
		return token
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// AuthMiddleware verifies the session token and puts the caller's id into
// the request context.
func AuthMiddleware(authService service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				handlers.WriteError(w, "No token, authorization denied", http.StatusUnauthorized)
				return
			}

			userID, err := authService.ParseToken(token)
			if err != nil {
				handlers.WriteError(w, "Token is not valid", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(service.ContextWithUserID(r.Context(), userID)))
		})
	}
}

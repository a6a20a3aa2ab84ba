package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"musiclib/internal/auth"
	"musiclib/internal/logging"
)

// AccessVerifier validates access tokens.
type AccessVerifier interface {
	ParseAccess(raw string) (*auth.Claims, error)
}

// BearerAuth rejects requests without a valid access token, except for paths
// under one of the public prefixes. The authenticated user id is stored in the
// request context.
func BearerAuth(verifier AccessVerifier, publicPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			raw := parseBearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				writeProblem(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.ParseAccess(raw)
			if err != nil {
				logging.WithContext(r.Context()).Debug().Err(err).Msg("access token rejected")
				writeProblem(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(logging.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

func parseBearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// writeProblem renders the API's JSON error body.
func writeProblem(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": status,
		"message":    message,
	})
}

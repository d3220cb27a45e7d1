package handlers

import (
	"net/http"
	"strings"

	"github.com/camden-git/cullsysbackend/auth"
)

// SecretHeader carries the raw shared secret for clients that skip the token
// exchange (curl, scripts). Browser clients normally send a bearer token.
const SecretHeader = "X-Auth-Secret"

// RequireAuth guards every listing and mutating route. The check is stateless:
// each request carries either the shared secret or a token signed with it.
func RequireAuth(gate *auth.Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret := r.Header.Get(SecretHeader); secret != "" {
			if err := gate.VerifySecret(secret); err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid secret")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
			return
		}

		if err := gate.VerifyToken(parts[1]); err != nil {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

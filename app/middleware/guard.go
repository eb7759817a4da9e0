package middleware

import (
	"encoding/json"
	"net/http"

	"folio/app/session"
)

// LoginPath is where anonymous browsers are sent by the guard.
const LoginPath = "/login"

// RequireAuth re-checks the session on every request it wraps. Nothing is
// cached between requests, so an expired session is rejected on its first
// use after expiry. Web requests are redirected to LoginPath; API requests
// get a 401 JSON error.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions.Store(r.Context()).IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			if IsAPI(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		})
	}
}

package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"folio/app/middleware"
	"folio/app/render"
	"folio/app/repositories"
	"folio/app/services"

	"github.com/gorilla/mux"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encoding response failed", "error", err)
	}
}

func sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.IsAPI(r) {
		sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps service and repository errors onto HTTP statuses. Anything
// unrecognised is a failing backend.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// postID returns the decoded {id} route variable.
func postID(r *http.Request) string {
	raw := mux.Vars(r)["id"]
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}

// editPath is the admin form action for updating id.
func editPath(id string) string {
	return "/admin/posts/" + url.PathEscape(id)
}

func renderPage(renderer *render.Renderer, w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := renderer.Render(w, r, status, name, data); err != nil {
		slog.Error("rendering page failed", "page", name, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

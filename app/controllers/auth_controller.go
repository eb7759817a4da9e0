package controllers

import (
	"log/slog"
	"net/http"

	"folio/app/auth"
	"folio/app/render"
	"folio/app/session"
)

const invalidCredentials = "Invalid credentials. Please try again."

// AuthController handles the admin login and logout.
type AuthController struct {
	verifier *auth.Verifier
	sessions *session.Manager
	renderer *render.Renderer
}

func NewAuthController(verifier *auth.Verifier, sessions *session.Manager, renderer *render.Renderer) *AuthController {
	return &AuthController{
		verifier: verifier,
		sessions: sessions,
		renderer: renderer,
	}
}

// LoginPage is the data of the login form.
type LoginPage struct {
	Username string
	Error    string
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginForm shows the login form, or the dashboard when already signed in.
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if ac.sessions.Store(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderPage(ac.renderer, w, r, http.StatusOK, "login", render.TemplateData{
		Title: "Admin Login",
		Data:  LoginPage{},
	})
}

// Login checks the submitted form and starts an authenticated session.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	username := r.PostFormValue("username")

	if !ac.verifier.Verify(username, r.PostFormValue("password")) {
		renderPage(ac.renderer, w, r, http.StatusUnauthorized, "login", render.TemplateData{
			Title: "Admin Login",
			Data:  LoginPage{Username: username, Error: invalidCredentials},
		})
		return
	}

	if err := ac.sessions.Login(r.Context()); err != nil {
		slog.Error("starting session failed", "error", err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout ends the session and returns to the blog.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ac.sessions.Logout(r.Context())
	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}

// APILogin checks JSON credentials and starts an authenticated session.
func (ac *AuthController) APILogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	if !ac.verifier.Verify(creds.Username, creds.Password) {
		sendError(w, r, invalidCredentials, http.StatusUnauthorized)
		return
	}
	if err := ac.sessions.Login(r.Context()); err != nil {
		slog.Error("starting session failed", "error", err)
		sendError(w, r, "Failed to start session", http.StatusInternalServerError)
		return
	}
	ac.APISession(w, r)
}

// APILogout ends the session.
func (ac *AuthController) APILogout(w http.ResponseWriter, r *http.Request) {
	ac.sessions.Logout(r.Context())
	ac.APISession(w, r)
}

// APISession reports the session state.
func (ac *AuthController) APISession(w http.ResponseWriter, r *http.Request) {
	state := ac.sessions.Store(r.Context()).State()
	sendJSON(w, http.StatusOK, map[string]any{
		"authenticated": state == session.Authenticated,
		"state":         state.String(),
	})
}

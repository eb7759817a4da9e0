// Package routes wires controllers onto the router.
package routes

import (
	"net/http"

	"folio/app/auth"
	"folio/app/controllers"
	"folio/app/middleware"
	"folio/app/render"
	"folio/app/services"
	"folio/app/session"

	"github.com/gorilla/mux"
)

// Deps are the long lived collaborators the handlers need.
type Deps struct {
	Posts    *services.PostService
	Quotes   *services.QuoteService
	Verifier *auth.Verifier
	Sessions *session.Manager
	Renderer *render.Renderer

	// TrustedOrigins may post cross-origin, as host[:port].
	TrustedOrigins []string
}

// SetupRoutes defines the application's routes and returns the handler to
// serve. Logging, the cookie session and the cross-origin check wrap every
// request, unmatched ones included.
func SetupRoutes(deps Deps) http.Handler {
	router := mux.NewRouter().UseEncodedPath()

	postController := controllers.NewPostController(deps.Posts, deps.Renderer)
	quoteController := controllers.NewQuoteController(deps.Quotes, deps.Renderer)
	authController := controllers.NewAuthController(deps.Verifier, deps.Sessions, deps.Renderer)
	adminController := controllers.NewAdminController(deps.Posts, deps.Quotes, deps.Renderer)

	guard := middleware.RequireAuth(deps.Sessions)

	// Web routes
	router.HandleFunc("/", quoteController.Home).Methods("GET")
	router.HandleFunc("/blog", postController.Index).Methods("GET")
	router.HandleFunc("/blog/{id}", postController.Show).Methods("GET")
	router.HandleFunc("/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.HandleFunc("/logout", authController.Logout).Methods("POST")

	// Admin web endpoints
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(guard)
	admin.HandleFunc("", adminController.Dashboard).Methods("GET")
	admin.HandleFunc("/posts", adminController.CreatePost).Methods("POST")
	admin.HandleFunc("/posts/{id}/edit", adminController.EditForm).Methods("GET")
	admin.HandleFunc("/posts/{id}", adminController.UpdatePost).Methods("POST")
	admin.HandleFunc("/posts/{id}/delete", adminController.DeletePost).Methods("POST")
	admin.HandleFunc("/quote", adminController.SaveQuote).Methods("POST")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	protected := func(h http.HandlerFunc) http.Handler {
		return guard(h)
	}

	// Posts API endpoints
	api.HandleFunc("/posts", postController.APIIndex).Methods("GET")
	api.HandleFunc("/posts/{id}", postController.APIShow).Methods("GET")
	api.Handle("/posts", protected(postController.APICreate)).Methods("POST")
	api.Handle("/posts/{id}", protected(postController.APIUpdate)).Methods("PUT")
	api.Handle("/posts/{id}", protected(postController.APIDelete)).Methods("DELETE")

	// Quote API endpoints
	api.HandleFunc("/quote", quoteController.APIShow).Methods("GET")
	api.Handle("/quote", protected(quoteController.APIUpdate)).Methods("PUT")

	// Session API endpoints
	api.HandleFunc("/login", authController.APILogin).Methods("POST")
	api.HandleFunc("/logout", authController.APILogout).Methods("POST")
	api.HandleFunc("/session", authController.APISession).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(postController.NotFound)

	// Global middleware wraps the router itself so 404 and 405 answers pass
	// through it too.
	handler := middleware.Recoverer(router)
	handler = middleware.CrossOrigin(deps.TrustedOrigins)(handler)
	handler = deps.Sessions.Middleware(handler)
	return middleware.Logger(handler)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"folio/app/auth"
	"folio/app/config"
	"folio/app/render"
	"folio/app/repositories"
	"folio/app/routes"
	"folio/app/services"
	"folio/app/session"
	"folio/app/views"
)

const shutdownTimeout = 30 * time.Second

// App is the assembled blog service.
type App struct {
	Config  *config.Config
	Repo    repositories.ContentRepository
	Posts   *services.PostService
	Quotes  *services.QuoteService
	Handler http.Handler
}

// NewApp opens the configured backend and wires the HTTP handler.
func NewApp(cfg *config.Config) (*App, error) {
	repo, err := repositories.Open(cfg.RepositoryOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage, err)
	}

	posts := services.NewPostService(repo, cfg.Author)
	quotes := services.NewQuoteService(repo)
	sessions := session.NewManager(cfg.IsDevelopment(), cfg.SessionLifetime)

	renderer, err := render.New(render.Config{
		TemplatesFS: views.FS,
		Sessions:    sessions,
		SiteAuthor:  cfg.Author,
	})
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	handler := routes.SetupRoutes(routes.Deps{
		Posts:    posts,
		Quotes:   quotes,
		Verifier: auth.NewVerifier(cfg.AdminUsername, cfg.AdminDigest),
		Sessions: sessions,
		Renderer: renderer,

		TrustedOrigins: cfg.TrustedOrigins,
	})

	return &App{
		Config:  cfg,
		Repo:    repo,
		Posts:   posts,
		Quotes:  quotes,
		Handler: handler,
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Repo.Close()
}

// Serve answers HTTP on ln until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if a.Config.Seed {
		if err := a.Posts.SeedInitialData(ctx); err != nil {
			slog.Warn("seeding blog failed", "error", err)
		}
	}

	srv := &http.Server{
		Handler:           a.Handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", ln.Addr().String(), "env", a.Config.Env, "storage", a.Config.Storage)
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

package controllers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"folio/app/middleware"
	"folio/app/models"
	"folio/app/render"
	"folio/app/repositories"
	"folio/app/services"
)

// PostController serves the public blog pages and the post API.
type PostController struct {
	postService *services.PostService
	renderer    *render.Renderer
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, renderer *render.Renderer) *PostController {
	return &PostController{
		postService: postService,
		renderer:    renderer,
	}
}

// PostPage is the data of the post detail page.
type PostPage struct {
	Post *models.Post
	Body template.HTML
}

// Index lists all posts, newest first. An empty blog is seeded with the
// welcome post first.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	if err := pc.postService.SeedInitialData(r.Context()); err != nil {
		slog.Warn("seeding blog failed", "error", err)
	}
	posts := pc.postService.ListPosts(r.Context())

	renderPage(pc.renderer, w, r, http.StatusOK, "blog", render.TemplateData{
		Title: "Blog",
		Data:  posts,
	})
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(r.Context(), postID(r))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			slog.Warn("loading post failed", "id", postID(r), "error", err)
		}
		renderPage(pc.renderer, w, r, http.StatusNotFound, "not_found", render.TemplateData{
			Title: "Post not found",
		})
		return
	}

	body, err := render.Markdown(post.Content)
	if err != nil {
		slog.Warn("rendering markdown failed", "id", post.ID, "error", err)
		body = template.HTML(template.HTMLEscapeString(post.Content))
	}

	renderPage(pc.renderer, w, r, http.StatusOK, "post", render.TemplateData{
		Title: post.Title,
		Data:  PostPage{Post: post, Body: body},
	})
}

// APIIndex returns all posts as JSON.
func (pc *PostController) APIIndex(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, pc.postService.ListPosts(r.Context()))
}

// APIShow returns one post as JSON.
func (pc *PostController) APIShow(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(r.Context(), postID(r))
	if err != nil {
		sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// APICreate creates a post from a JSON body.
func (pc *PostController) APICreate(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), in)
	if err != nil {
		sendError(w, r, err.Error(), statusFor(err))
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// APIUpdate replaces the editable fields of a post from a JSON body.
func (pc *PostController) APIUpdate(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), postID(r), in)
	if err != nil {
		sendError(w, r, err.Error(), statusFor(err))
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// APIDelete handles deleting a post
func (pc *PostController) APIDelete(w http.ResponseWriter, r *http.Request) {
	if err := pc.postService.DeletePost(r.Context(), postID(r)); err != nil {
		sendError(w, r, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound answers unmatched routes: a JSON error under /api, the not found
// page elsewhere.
func (pc *PostController) NotFound(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAPI(r) {
		sendError(w, r, "Not found", http.StatusNotFound)
		return
	}
	renderPage(pc.renderer, w, r, http.StatusNotFound, "not_found", render.TemplateData{
		Title: "Page not found",
	})
}

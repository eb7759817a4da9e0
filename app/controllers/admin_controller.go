package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"folio/app/models"
	"folio/app/render"
	"folio/app/repositories"
	"folio/app/services"
)

// AdminController serves the protected dashboard. Every handler expects the
// route guard in front of it.
type AdminController struct {
	postService  *services.PostService
	quoteService *services.QuoteService
	renderer     *render.Renderer
}

func NewAdminController(postService *services.PostService, quoteService *services.QuoteService, renderer *render.Renderer) *AdminController {
	return &AdminController{
		postService:  postService,
		quoteService: quoteService,
		renderer:     renderer,
	}
}

// PostForm is the data of the create and edit forms.
type PostForm struct {
	Action   string
	Title    string
	Excerpt  string
	Content  string
	ImageURL string
	Tags     string
	Error    string
	Editing  bool
}

// DashboardPage is the data of the admin dashboard.
type DashboardPage struct {
	Posts []*models.Post
	Quote models.DailyQuote
	Form  PostForm
}

// formInput reads a submitted post form. Tags arrive comma separated.
func formInput(form url.Values) services.PostInput {
	return services.PostInput{
		Title:    form.Get("title"),
		Excerpt:  form.Get("excerpt"),
		Content:  form.Get("content"),
		ImageURL: form.Get("imageUrl"),
		Tags:     models.ParseTags(form.Get("tags")),
	}
}

func formFromInput(action string, in services.PostInput, editing bool) PostForm {
	return PostForm{
		Action:   action,
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Tags:     (&models.Post{Tags: in.Tags}).TagList(),
		Editing:  editing,
	}
}

func (ac *AdminController) renderDashboard(w http.ResponseWriter, r *http.Request, status int, form PostForm) {
	renderPage(ac.renderer, w, r, status, "admin", render.TemplateData{
		Title: "Admin Dashboard",
		Data: DashboardPage{
			Posts: ac.postService.ListPosts(r.Context()),
			Quote: ac.quoteService.GetQuote(r.Context()),
			Form:  form,
		},
	})
}

// Dashboard lists posts with the quote and create forms.
func (ac *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	ac.renderDashboard(w, r, http.StatusOK, PostForm{Action: "/admin/posts"})
}

// CreatePost publishes a post from the dashboard form.
func (ac *AdminController) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := formInput(r.PostForm)

	post, err := ac.postService.CreatePost(r.Context(), in)
	if err != nil {
		form := formFromInput("/admin/posts", in, false)
		form.Error = err.Error()
		ac.renderDashboard(w, r, statusFor(err), form)
		return
	}

	slog.Info("post published", "id", post.ID)
	ac.renderer.SetFlash(r, "Post published", "success")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// EditForm shows the edit form filled with the stored post.
func (ac *AdminController) EditForm(w http.ResponseWriter, r *http.Request) {
	id := postID(r)
	post, err := ac.postService.GetPost(r.Context(), id)
	if err != nil {
		renderPage(ac.renderer, w, r, http.StatusNotFound, "not_found", render.TemplateData{
			Title: "Post not found",
		})
		return
	}

	renderPage(ac.renderer, w, r, http.StatusOK, "edit", render.TemplateData{
		Title: "Edit Post",
		Data: PostForm{
			Action:   editPath(id),
			Title:    post.Title,
			Excerpt:  post.Excerpt,
			Content:  post.Content,
			ImageURL: post.ImageURL,
			Tags:     post.TagList(),
			Editing:  true,
		},
	})
}

// UpdatePost saves the edit form. The post keeps its id and date.
func (ac *AdminController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := postID(r)
	in := formInput(r.PostForm)

	if _, err := ac.postService.UpdatePost(r.Context(), id, in); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			renderPage(ac.renderer, w, r, http.StatusNotFound, "not_found", render.TemplateData{
				Title: "Post not found",
			})
			return
		}
		form := formFromInput(editPath(id), in, true)
		form.Error = err.Error()
		renderPage(ac.renderer, w, r, statusFor(err), "edit", render.TemplateData{
			Title: "Edit Post",
			Data:  form,
		})
		return
	}

	ac.renderer.SetFlash(r, "Post updated", "success")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DeletePost removes a post and returns to the dashboard.
func (ac *AdminController) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := postID(r)
	if err := ac.postService.DeletePost(r.Context(), id); err != nil {
		slog.Warn("deleting post failed", "id", id, "error", err)
		ac.renderer.SetFlash(r, "Failed to delete post: "+err.Error(), "error")
	} else {
		ac.renderer.SetFlash(r, "Post deleted", "success")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// SaveQuote sets the quote of the day from the dashboard form.
func (ac *AdminController) SaveQuote(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	quote := models.DailyQuote{
		Text:   r.PostFormValue("text"),
		Author: r.PostFormValue("author"),
	}

	if _, err := ac.quoteService.SaveQuote(r.Context(), quote); err != nil {
		ac.renderer.SetFlash(r, "Failed to update quote: "+err.Error(), "error")
	} else {
		ac.renderer.SetFlash(r, "Quote updated", "success")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

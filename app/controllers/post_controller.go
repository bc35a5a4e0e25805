package controllers

import (
	"errors"
	"log"
	"net/http"

	"inkpress/app/middleware"
	"inkpress/app/services"

	"github.com/gorilla/mux"
)

// PostPage is the post page with the state of its comment form.
type PostPage struct {
	*services.DetailContext
	Form       services.CommentForm `json:"-"`
	FormErrors map[string]string    `json:"form_errors,omitempty"`
}

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	posts    *services.PostService
	comments *services.CommentService
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService, comments *services.CommentService, views Renderer, site services.SiteInfo, errorLog *log.Logger) *PostController {
	return &PostController{
		base:     base{views: views, site: site, errorLog: errorLog},
		posts:    posts,
		comments: comments,
	}
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	ctx, err := pc.posts.Detail(mux.Vars(r)["slug"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.render(w, r, PagePost, http.StatusOK, &PostPage{DetailContext: ctx}, popFlash(w, r))
}

// Comment handles a comment submitted from the post page
func (pc *PostController) Comment(w http.ResponseWriter, r *http.Request) {
	post, err := pc.posts.PublishedBySlug(mux.Vars(r)["slug"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := services.CommentForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Content: r.PostFormValue("content"),
	}
	sub, err := pc.comments.Submit(post, form, middleware.ClientIP(r))

	var status int
	var flash *Flash
	var verr *services.ValidationError
	switch {
	case err == nil:
		setFlash(w, "success", services.CommentAddedMessage)
		http.Redirect(w, r, post.AbsoluteURL(), http.StatusSeeOther)
		return
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		flash = &Flash{Level: "error", Message: services.CommentInvalidMessage}
	case errors.Is(err, services.ErrRateLimited):
		status = http.StatusTooManyRequests
		flash = &Flash{Level: "error", Message: services.CommentLimitMessage}
	default:
		pc.serverError(w, r, err)
		return
	}

	ctx, err := pc.posts.DetailFor(post)
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	page := &PostPage{DetailContext: ctx, Form: sub.Form}
	if verr != nil {
		page.FormErrors = verr.Fields
	}
	if wantsJSON(r) {
		pc.sendJSON(w, status, map[string]interface{}{
			"error":  flash.Message,
			"fields": page.FormErrors,
		})
		return
	}
	pc.render(w, r, PagePost, status, page, flash)
}

package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"inkpress/app/middleware"
	"inkpress/app/services"

	"github.com/gorilla/mux"
)

// AjaxController answers the XMLHttpRequest endpoints
type AjaxController struct {
	base
	posts   *services.PostService
	listing *services.ListingService
}

// NewAjaxController creates a new AjaxController
func NewAjaxController(posts *services.PostService, listing *services.ListingService, views Renderer, site services.SiteInfo, errorLog *log.Logger) *AjaxController {
	return &AjaxController{
		base:    base{views: views, site: site, errorLog: errorLog},
		posts:   posts,
		listing: listing,
	}
}

// LikePost toggles the client's like on a post
func (ac *AjaxController) LikePost(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAJAX(r) {
		ac.notFound(w, r)
		return
	}
	id, err := strconv.ParseUint(mux.Vars(r)["post_id"], 10, 64)
	if err != nil {
		ac.notFound(w, r)
		return
	}

	res, err := ac.posts.ToggleLike(uint(id), middleware.ClientIP(r))
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, res)
}

// SearchSuggestions offers post titles for the search box
func (ac *AjaxController) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := []string{}
	if middleware.IsAJAX(r) {
		var err error
		suggestions, err = ac.listing.Suggestions(r.URL.Query().Get("q"))
		if err != nil {
			ac.serverError(w, r, err)
			return
		}
	}
	ac.sendJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

type loadMoreResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	*services.LoadMoreResult
}

// LoadMore returns the next batch of posts for infinite scroll
func (ac *AjaxController) LoadMore(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAJAX(r) {
		ac.notFound(w, r)
		return
	}

	q := r.URL.Query()
	res, err := ac.listing.LoadMore(q.Get("page"), q.Get("category"))
	if errors.Is(err, services.ErrInvalidPage) {
		ac.sendJSON(w, http.StatusOK, loadMoreResponse{Message: "Invalid page"})
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, loadMoreResponse{Success: true, LoadMoreResult: res})
}

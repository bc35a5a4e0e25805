package controllers

import (
	"log"
	"net/http"
	"strconv"

	"inkpress/app/services"

	"github.com/gorilla/mux"
)

// BlogController handles the listing pages
type BlogController struct {
	base
	listing *services.ListingService
}

// NewBlogController creates a new BlogController
func NewBlogController(listing *services.ListingService, views Renderer, site services.SiteInfo, errorLog *log.Logger) *BlogController {
	return &BlogController{
		base:    base{views: views, site: site, errorLog: errorLog},
		listing: listing,
	}
}

func listingParams(r *http.Request) services.ListingParams {
	q := r.URL.Query()
	return services.ListingParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Page:     q.Get("page"),
	}
}

// Home handles the front page
func (bc *BlogController) Home(w http.ResponseWriter, r *http.Request) {
	ctx, err := bc.listing.Home(listingParams(r))
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.render(w, r, PageHome, http.StatusOK, ctx, popFlash(w, r))
}

// Category handles the posts of one category
func (bc *BlogController) Category(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		bc.notFound(w, r)
		return
	}
	ctx, err := bc.listing.Category(uint(id), listingParams(r))
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.render(w, r, PageCategory, http.StatusOK, ctx, popFlash(w, r))
}

// Author handles the posts of one author
func (bc *BlogController) Author(w http.ResponseWriter, r *http.Request) {
	ctx, err := bc.listing.Author(mux.Vars(r)["username"], r.URL.Query().Get("page"))
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.render(w, r, PageAuthor, http.StatusOK, ctx, popFlash(w, r))
}

// Archive handles the yearly and monthly archives
func (bc *BlogController) Archive(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		bc.notFound(w, r)
		return
	}
	month := 0
	if m, ok := vars["month"]; ok {
		if month, err = strconv.Atoi(m); err != nil || month == 0 {
			bc.notFound(w, r)
			return
		}
	}

	ctx, err := bc.listing.Archive(year, month, r.URL.Query().Get("page"))
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.render(w, r, PageArchive, http.StatusOK, ctx, popFlash(w, r))
}

// About handles the about page
func (bc *BlogController) About(w http.ResponseWriter, r *http.Request) {
	ctx, err := bc.listing.About()
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.render(w, r, PageAbout, http.StatusOK, ctx, popFlash(w, r))
}

// NotFound answers requests no route matched
func (bc *BlogController) NotFound(w http.ResponseWriter, r *http.Request) {
	bc.notFound(w, r)
}

// MethodNotAllowed answers requests whose path matched with the wrong method
func (bc *BlogController) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	bc.sendError(w, r, "Method Not Allowed", http.StatusMethodNotAllowed)
}

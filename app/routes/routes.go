package routes

import (
	"log"
	"net/http"

	"inkpress/app/controllers"
	"inkpress/app/middleware"
	"inkpress/app/services"

	"github.com/gorilla/mux"
)

// Dependencies is everything the router needs to build its controllers.
type Dependencies struct {
	Listing   *services.ListingService
	Posts     *services.PostService
	Comments  *services.CommentService
	Views     controllers.Renderer
	Site      services.SiteInfo
	StaticDir string
	InfoLog   *log.Logger
	ErrorLog  *log.Logger
}

const slugPattern = "{slug:[-a-zA-Z0-9_]+}"

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	// Apply global middleware
	router.Use(middleware.Logger(deps.InfoLog))
	router.Use(middleware.Recoverer(deps.ErrorLog))
	router.Use(middleware.ContentTypeJSON)

	blog := controllers.NewBlogController(deps.Listing, deps.Views, deps.Site, deps.ErrorLog)
	post := controllers.NewPostController(deps.Posts, deps.Comments, deps.Views, deps.Site, deps.ErrorLog)
	ajax := controllers.NewAjaxController(deps.Posts, deps.Listing, deps.Views, deps.Site, deps.ErrorLog)

	// Serve static files
	if deps.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	// Pages
	router.HandleFunc("/", blog.Home).Methods("GET", "HEAD")
	router.HandleFunc("/about/", blog.About).Methods("GET", "HEAD")
	router.HandleFunc("/post/"+slugPattern+"/", post.Show).Methods("GET", "HEAD")
	// A redirected POST is replayed as GET, so comments are also accepted
	// without the trailing slash.
	router.StrictSlash(false)
	router.HandleFunc("/post/"+slugPattern, post.Comment).Methods("POST")
	router.StrictSlash(true)
	router.HandleFunc("/post/"+slugPattern+"/", post.Comment).Methods("POST")
	router.HandleFunc("/category/{id:[0-9]+}/", blog.Category).Methods("GET", "HEAD")
	router.HandleFunc("/author/{username}/", blog.Author).Methods("GET", "HEAD")
	router.HandleFunc("/archive/{year:[0-9]+}/", blog.Archive).Methods("GET", "HEAD")
	router.HandleFunc("/archive/{year:[0-9]+}/{month:[0-9]+}/", blog.Archive).Methods("GET", "HEAD")

	// AJAX endpoints
	router.HandleFunc("/ajax/like-post/{post_id:[0-9]+}/", ajax.LikePost).Methods("POST")
	router.HandleFunc("/ajax/search-suggestions/", ajax.SearchSuggestions).Methods("GET")
	router.HandleFunc("/ajax/load-more-posts/", ajax.LoadMore).Methods("GET")

	logged := middleware.Logger(deps.InfoLog)
	router.NotFoundHandler = logged(http.HandlerFunc(blog.NotFound))
	router.MethodNotAllowedHandler = logged(http.HandlerFunc(blog.MethodNotAllowed))
	return router
}

package commands

import (
	"fmt"
	"log"
	"os"

	"inkpress/app/cache"
	"inkpress/app/config"
	"inkpress/app/database"
	"inkpress/app/repositories"
	"inkpress/app/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Version is reported by the version command and on the about page.
const Version = "1.0"

// application is the wired object graph shared by the commands.
type application struct {
	cfg      *config.Config
	infoLog  *log.Logger
	errorLog *log.Logger

	db    *gorm.DB
	cache *cache.Store

	postRepo     *repositories.GormPostRepository
	commentRepo  *repositories.GormCommentRepository
	categoryRepo *repositories.GormCategoryRepository
	authorRepo   *repositories.GormAuthorRepository

	listing  *services.ListingService
	posts    *services.PostService
	comments *services.CommentService
}

func newLoggers() (*log.Logger, *log.Logger) {
	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
	return infoLog, errorLog
}

// openApp loads the configuration named by the --config flag, opens both
// stores and builds the services. The schema is migrated on every open.
func openApp(cmd *cobra.Command) (*application, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	infoLog, errorLog := newLoggers()
	app := &application{cfg: cfg, infoLog: infoLog, errorLog: errorLog}

	app.db, err = database.Open(cfg.Database, errorLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(app.db); err != nil {
		database.Close(app.db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	app.cache, err = cache.Open(cfg.Cache, &cache.Logger{Info: infoLog, Error: errorLog, Verbose: cfg.Cache.Debug})
	if err != nil {
		database.Close(app.db)
		return nil, err
	}

	app.postRepo = repositories.NewGormPostRepository(app.db)
	app.commentRepo = repositories.NewGormCommentRepository(app.db)
	app.categoryRepo = repositories.NewGormCategoryRepository(app.db)
	app.authorRepo = repositories.NewGormAuthorRepository(app.db)

	engagement := services.NewEngagementService(app.cache)
	app.listing = services.NewListingService(app.postRepo, app.categoryRepo, app.commentRepo, app.authorRepo, app.cache, app.site())
	app.posts = services.NewPostService(app.postRepo, app.commentRepo, engagement)
	app.comments = services.NewCommentService(app.commentRepo, engagement)
	return app, nil
}

func (app *application) site() services.SiteInfo {
	return services.SiteInfo{
		Name:        app.cfg.Site.Name,
		Description: app.cfg.Site.Description,
		Version:     Version,
	}
}

// Close releases both stores.
func (app *application) Close() {
	if err := app.cache.Close(); err != nil {
		app.errorLog.Printf("failed to close cache: %v", err)
	}
	if err := database.Close(app.db); err != nil {
		app.errorLog.Printf("failed to close database: %v", err)
	}
}

package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inkpress/app/controllers"
	"inkpress/app/routes"

	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				app.cfg.Server.Addr = addr
			}
			srv, err := app.newServer()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.infoLog.Printf("Starting server on %s", srv.Addr)
			return runServer(ctx, srv, app.cfg.Server.ShutdownTimeout, app.infoLog)
		},
	}
	cmd.Flags().String("addr", "", "HTTP network address (overrides server.addr)")
	return cmd
}

// newServer builds the HTTP server for the configured views and routes.
func (app *application) newServer() (*http.Server, error) {
	views, err := controllers.LoadTemplates(app.cfg.Views.Dir)
	if err != nil {
		return nil, err
	}
	router := routes.SetupRoutes(routes.Dependencies{
		Listing:   app.listing,
		Posts:     app.posts,
		Comments:  app.comments,
		Views:     views,
		Site:      app.site(),
		StaticDir: app.cfg.Static.Dir,
		InfoLog:   app.infoLog,
		ErrorLog:  app.errorLog,
	})

	return &http.Server{
		Addr:     app.cfg.Server.Addr,
		ErrorLog: app.errorLog,
		Handler:  router,

		IdleTimeout:  app.cfg.Server.IdleTimeout,
		ReadTimeout:  app.cfg.Server.ReadTimeout,
		WriteTimeout: app.cfg.Server.WriteTimeout,
	}, nil
}

// runServer serves until ctx is done, then drains in-flight requests for at
// most timeout.
func runServer(ctx context.Context, srv *http.Server, timeout time.Duration, infoLog *log.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	infoLog.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"portfolio/content"
	"portfolio/handlers"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd runs the HTTP API.
func NewServeCmd() *cobra.Command {
	var opts struct {
		Port string
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), "server", func(ctx context.Context, app *App) error {
				if opts.Port != "" {
					app.Config.Port = opts.Port
				}
				return serve(ctx, app)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "Port to serve on (defaults to PORT)")
	return cmd
}

func serve(ctx context.Context, app *App) error {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if app.Config.UsingDevSecrets() {
			return errors.New("ADMIN_PASSWORD and JWT_SECRET must be set in production")
		}
	}

	fallback := content.Fallback()
	projects := content.NewProjectsView(app.Gateway, fallback, app.Bus, app.Log)
	defer projects.Close()
	status := content.NewStatusView(app.Gateway, app.KV, app.Bus, app.Log)
	defer status.Close()
	projects.Refresh(ctx)
	status.Refresh(ctx)

	if app.Relay != nil {
		go func() {
			if err := app.Relay.Run(ctx, nil); err != nil {
				app.Log.Error("Refresh relay stopped", zap.Error(err))
			}
		}()
	}

	router := handlers.NewRouter(handlers.Deps{
		Gateway:       app.Gateway,
		Projects:      projects,
		Status:        status,
		Fallback:      fallback,
		Events:        app.Events(),
		Bucket:        app.Bucket,
		AdminPassword: app.Config.AdminPassword,
		JWTSecret:     app.Config.JWTSecret,
		Log:           app.Log,
	})

	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Log.Info("Server starting", zap.String("addr", srv.Addr), zap.Bool("remote", app.Gateway.Configured()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.Log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

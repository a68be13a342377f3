package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/notion-site/internal/auth"
	"github.com/salmonumbrella/notion-site/internal/logging"
	"github.com/salmonumbrella/notion-site/internal/notion"
	"github.com/salmonumbrella/notion-site/internal/render"
	"github.com/salmonumbrella/notion-site/internal/site"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The server logs JSON for log aggregation.
			logging.SetupJSON(app.debug, app.Stderr)

			cfg, err := app.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			token, err := cfg.ResolveToken(auth.GetKeyringToken)
			if err != nil {
				return err
			}

			client := notion.NewClient(token)
			svc := site.NewService(client, site.Options{
				HomepageID:        cfg.HomepageID,
				PagesDataSourceID: cfg.PagesDataSource,
				BlogDataSourceID:  cfg.BlogDataSource,
				SlugProperty:      cfg.SlugProperty,
				PublishedProperty: cfg.PublishedProperty,
				DescriptionLength: cfg.DescriptionLength,
				RenderPolicy: render.Policy{
					SkipEmptyParagraphs: !cfg.KeepEmptyParagraphs,
					ChildFetchLimit:     cfg.ChildFetchLimit,
				},
			})

			server := &http.Server{
				Addr:              cfg.Addr,
				Handler:           site.NewRouter(svc, site.RouterOptions{AllowedOrigins: cfg.AllowedOrigins, CacheMaxAge: cfg.CacheMaxAge}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", "addr", cfg.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				slog.Info("shutting down")
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

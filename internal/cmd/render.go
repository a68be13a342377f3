package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/notion-site/internal/auth"
	"github.com/salmonumbrella/notion-site/internal/notion"
	"github.com/salmonumbrella/notion-site/internal/output"
	"github.com/salmonumbrella/notion-site/internal/render"
	"github.com/salmonumbrella/notion-site/internal/site"
)

// renderResult is the JSON payload of `nsite render`.
type renderResult struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	HTML        string   `json:"html"`
	Issues      []string `json:"issues,omitempty"`
}

func newRenderCmd(app *App) *cobra.Command {
	var htmlOnly bool

	cmd := &cobra.Command{
		Use:   "render <page-id-or-url>",
		Short: "Render a Notion page to HTML",
		Long:  "Fetches a page's blocks and renders them to an HTML fragment, printed as JSON (or raw HTML with --html).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := notion.ExtractID(args[0])
			if err != nil {
				return err
			}

			cfg, err := app.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			token, err := cfg.ResolveToken(auth.GetKeyringToken)
			if err != nil {
				return err
			}

			client := notion.NewClient(token)
			renderer := render.NewWithPolicy(client, render.Policy{
				SkipEmptyParagraphs: !cfg.KeepEmptyParagraphs,
				ChildFetchLimit:     cfg.ChildFetchLimit,
			})

			ctx := cmd.Context()
			html, report, err := renderer.RenderPage(ctx, pageID)
			if err != nil {
				return err
			}
			report.Log()

			if htmlOnly {
				_, err = fmt.Fprintln(app.Stdout, html)
				return err
			}

			result := renderResult{
				ID:          pageID,
				HTML:        html,
				Description: site.Excerpt(html, cfg.DescriptionLength),
			}
			if page, err := client.GetPage(ctx, pageID); err == nil {
				result.Title = page.Title()
			}
			for _, issue := range report.Issues {
				result.Issues = append(result.Issues, issue.String())
			}

			return output.NewPrinter(app.Stdout).Print(result, app.jq, app.jsPath)
		},
	}

	cmd.Flags().BoolVar(&htmlOnly, "html", false, "print the raw HTML fragment instead of JSON")
	return cmd
}

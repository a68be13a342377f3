// Package cmd implements the nsite command line interface.
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/notion-site/internal/config"
	"github.com/salmonumbrella/notion-site/internal/errors"
	"github.com/salmonumbrella/notion-site/internal/logging"
	"github.com/salmonumbrella/notion-site/internal/ui"
)

// App carries the CLI's injectable dependencies and build metadata.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	Version string

	// ConfigPath overrides the default config location when set.
	ConfigPath string

	debug  bool
	jq     string
	jsPath string
}

// NewApp creates an App wired to the process streams.
func NewApp() *App {
	return &App{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: "dev",
	}
}

// Execute runs the CLI and handles centralized error output.
func (app *App) Execute(ctx context.Context, args []string) error {
	root := newRootCmd(app)
	root.SetArgs(args)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		u := ui.New(ui.ColorAuto)
		u.Error("%v", err)
		if suggestion := errors.UserSuggestion(err); suggestion != "" {
			u.Info("%s", suggestion)
		}
	}
	return err
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsUserError(err):
		return 2
	default:
		return 1
	}
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nsite",
		Short: "Serve Notion pages as a website API",
		Long:  "nsite renders Notion pages to HTML and serves them as JSON for a static site frontend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			logging.Setup(app.debug, app.Stderr)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&app.debug, "debug", false, "enable debug logging")
	flags.StringVar(&app.ConfigPath, "config", "", "path to config file")
	flags.StringVar(&app.jq, "jq", "", "filter JSON output with a jq expression")
	flags.StringVar(&app.jsPath, "jsonpath", "", "filter JSON output with a JSONPath expression")

	rootCmd.AddCommand(
		newServeCmd(app),
		newRenderCmd(app),
		newAuthCmd(app),
		newVersionCmd(app),
	)

	return rootCmd
}

// loadConfig loads the config file, honoring the --config override.
func (app *App) loadConfig() (*config.Config, error) {
	if app.ConfigPath != "" {
		return config.LoadFromPath(app.ConfigPath)
	}
	return config.Load()
}

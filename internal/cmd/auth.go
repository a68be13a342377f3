package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/notion-site/internal/auth"
	"github.com/salmonumbrella/notion-site/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Notion integration token",
	}

	cmd.AddCommand(
		newAuthAddTokenCmd(app),
		newAuthStatusCmd(app),
		newAuthRemoveCmd(app),
	)
	return cmd
}

func newAuthAddTokenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-token",
		Short: "Store an integration token in the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readToken()
			if err != nil {
				return err
			}
			if err := auth.SetToken(token); err != nil {
				return err
			}
			ui.New(ui.ColorAuto).Success("Token stored in keyring")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token is coming from",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.New(ui.ColorAuto)
			if os.Getenv(auth.EnvVarName) != "" {
				u.Success("Token set via %s", auth.EnvVarName)
				return nil
			}
			if _, err := auth.GetKeyringToken(); err == nil {
				u.Success("Token stored in keyring")
				return nil
			}
			u.Warn("No token configured")
			u.Info("Run 'nsite auth add-token' or set %s", auth.EnvVarName)
			return nil
		},
	}
}

func newAuthRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the token from the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.RemoveToken(); err != nil {
				return err
			}
			ui.New(ui.ColorAuto).Success("Token removed from keyring")
			return nil
		},
	}
}

// readToken reads the token from stdin, without echo when stdin is a
// terminal.
func readToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Notion integration token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

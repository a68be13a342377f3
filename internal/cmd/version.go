package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nsite version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(app.Stdout, app.Version)
			return err
		},
	}
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/garm/internal/domain"
	"github.com/spf13/cobra"
)

func newActorCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actor",
		Short: "Inspect actor documents",
	}

	cmd.AddCommand(newActorShowCmd(app))

	return cmd
}

func newActorShowCmd(app *app) *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "show <identifier>",
		Short: "Print the actor document served for a handle or account id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if origin == "" {
				origin = app.config.Server.PublicURL
			}
			if origin == "" {
				return fmt.Errorf("%w: pass --origin or set server.public_url", domain.ErrConfiguration)
			}

			resolution, err := app.service.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !resolution.Found {
				return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, args[0])
			}
			if !resolution.Canonical {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s redirects to %s\n", args[0], domain.ActorPath(resolution.Account.Handle))
			}

			doc, err := app.service.Document(resolution.Account, origin)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(doc)
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Public base URL (defaults to server.public_url)")

	return cmd
}

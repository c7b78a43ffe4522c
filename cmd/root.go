package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "garm",
		Short:         "garm: publish game-platform accounts as federated actors",
		Long:          "garm serves ActivityPub actor documents for accounts imported from a game platform, and manages the local account file those documents are built from.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newAccountCmd(app),
		newActorCmd(app),
	)

	return rootCmd
}

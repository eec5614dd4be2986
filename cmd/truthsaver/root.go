package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)
	var rootRun runFlags

	rootCmd := &cobra.Command{
		Use:   "truthsaver",
		Short: "Archive ranked GoldenEye and Perfect Dark run videos",
		Long: "truthsaver scrapes the rankings site for times with videos, records them\n" +
			"in a local store, and downloads each video once.\n\n" +
			"Without a subcommand it runs the update phase followed by the download phase.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, ctx, rootRun)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.store, "store", "", "Store file (.json, or .db/.sqlite for SQLite)")
	rootCmd.PersistentFlags().StringVar(&flags.videoDir, "video-dir", "", "Root directory for downloaded videos")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	bindRunFlags(rootCmd, &rootRun)

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newUpdateCommand(ctx))
	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newLinkCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

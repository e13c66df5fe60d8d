package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "phototools",
		Short:         "Organize photos and videos into folders by capture date",
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
			return cmd.Help()
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	persistent.BoolVarP(&flags.trace, "trace", "w", false, "Enable trace logging (more detail than --verbose)")
	persistent.StringVar(&flags.configPath, "config", "", "Configuration file path")
	persistent.StringVar(&flags.logFormat, "log-format", "", "Log output format: console or json")

	rootCmd.AddCommand(newCopyCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newJournalCommand(ctx))

	return rootCmd
}

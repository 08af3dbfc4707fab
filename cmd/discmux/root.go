package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "discmux <device> <cover.jpg> <output.mka>",
		Short:         "Rip an audio CD into a single tagged, chaptered Matroska file",
		Args:          cobra.ExactArgs(3),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid past this point; a runtime failure
			// should not re-print usage.
			cmd.SilenceUsage = true
			return runRip(cmd, ctx, args[0], args[1], args[2])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().Bool("wait", false, "Wait for a disc to be inserted before ripping")
	rootCmd.Flags().Bool("eject", false, "Eject the disc after a successful rip")

	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

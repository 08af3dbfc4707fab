package main

import (
	"os"

	"github.com/spf13/cobra"

	"discmux/internal/history"
	"discmux/internal/logging"
	"discmux/internal/metadata"
	"discmux/internal/workflow"
)

func runRip(cmd *cobra.Command, ctx *commandContext, device, coverPath, outputPath string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		cfg.Rip.WaitForDisc = true
	}
	if eject, _ := cmd.Flags().GetBool("eject"); eject {
		cfg.Rip.EjectAfterRip = true
	}

	var recorder workflow.Recorder
	if cfg.History.Enabled {
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("rip history unavailable", logging.Error(err))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	// Prompts go to stdout; logs stay on stderr so the two streams never
	// interleave mid-line.
	provider := metadata.NewConsolePrompter(os.Stdin, os.Stdout)

	flow := workflow.New(cfg, logger, provider, recorder)
	return flow.Run(cmd.Context(), workflow.Request{
		Device:     device,
		CoverPath:  coverPath,
		OutputPath: outputPath,
	})
}

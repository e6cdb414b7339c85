package main

import (
	"log/slog"

	"github.com/azoni/azoni-node/internal/logutil"
	"github.com/azoni/azoni-node/internal/statepaths"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Resolve tracked accounts to IDs and seed the last-seen state",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			b, err := botFromViper(logger)
			if err != nil {
				return err
			}

			logger.Info("bootstrap_start", "state_dir", statepaths.FileStateDir())
			if err := b.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			logger.Info("bootstrap_done")
			return nil
		},
	}
}

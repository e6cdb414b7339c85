package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azoni/azoni-node/internal/logutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll tracked accounts and reply to new posts until interrupted",
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

			interval := viper.GetDuration("poll.interval")
			if interval <= 0 {
				interval = time.Minute
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("watch_start", "interval", interval.String(), "accounts", len(viper.GetStringSlice("accounts")))
			err = b.Watch(ctx, interval)
			if errors.Is(err, context.Canceled) {
				logger.Info("watch_stop")
				return nil
			}
			return err
		},
	}

	cmd.Flags().Duration("poll-interval", time.Minute, "Interval between poll cycles.")
	_ = viper.BindPFlag("poll.interval", cmd.Flags().Lookup("poll-interval"))

	return cmd
}

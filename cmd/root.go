// Package cmd provides the entrypoint commands for the botcheck cli.
package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edgard/botcheck/internal/config"
	"github.com/edgard/botcheck/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "botcheck",
	Short: "Verify a Telegram bot credential and channel setup",
	Long: `Botcheck verifies that a configured Telegram bot token and channel ID
work: it fetches the bot identity (getMe) and sends one test message to
the channel, printing both raw API responses.

Credentials are read from TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL_ID,
optionally loaded from a local .env file.`,
	SilenceUsage: true,
	RunE:         runVerify,
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// setup loads configuration and initializes the default logger.
// A missing token or channel ID surfaces as a single human-readable
// error before any network call is attempted.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	return cfg, log, nil
}

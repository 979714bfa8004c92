package cmd

import (
	"github.com/spf13/cobra"

	"github.com/edgard/botcheck/internal/monitor"
	"github.com/edgard/botcheck/internal/probe"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Probe the bot identity on a schedule and alert the channel on failure",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	client := probe.NewClient(cfg.Telegram.BaseURL, cfg.Telegram.Token, cfg.Telegram.Timeout, log)
	store, closeStore := openStore(cfg.Database.Path, log)
	defer closeStore()

	m := monitor.New(client, store, cfg.Watch, cfg.Telegram.ChannelID, log)
	return m.Run(cmd.Context())
}

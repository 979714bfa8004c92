package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgard/botcheck/internal/database"
	"github.com/edgard/botcheck/internal/probe"
	"github.com/edgard/botcheck/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the verification sequence: getMe, then one test message",
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	client := probe.NewClient(cfg.Telegram.BaseURL, cfg.Telegram.Token, cfg.Telegram.Timeout, log)
	store, closeStore := openStore(cfg.Database.Path, log)
	defer closeStore()

	runner := verify.NewRunner(client, store, cfg.Telegram.ChannelID, cfg.Telegram.TestMessage, os.Stdout, log)
	return runner.Run(cmd.Context())
}

// openStore opens the probe history store. History is a convenience, so
// an unavailable database degrades to a no-op store rather than failing
// the verification.
func openStore(path string, log *slog.Logger) (database.Store, func()) {
	db, err := database.NewDB(path)
	if err != nil {
		log.Warn("probe history unavailable", "path", path, "error", err)
		return nil, func() {}
	}
	return database.NewStore(db, log), func() { database.CloseDB(db) }
}

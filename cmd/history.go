package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/botcheck/internal/database"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent probe results",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of probes to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open probe history: %w", err)
	}
	defer database.CloseDB(db)

	store := database.NewStore(db, log)
	probes, err := store.RecentProbes(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(probes) == 0 {
		fmt.Println("No probes recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMETHOD\tSTATUS\tOK\tDURATION")
	for _, p := range probes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%dms\n",
			p.CreatedAt.Format(time.RFC3339), p.Method, p.StatusCode, p.OK, p.DurationMS)
	}
	return w.Flush()
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/ink/internal/storage"
)

var (
	historyLimit  int
	historySearch string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List globally visited pages, newest first",
	Long: `List the pages visited in any tab, newest first.

Examples:
  ink history                      # everything
  ink history --limit 20           # the last 20 visits
  ink history --search golang      # visits whose title or URL match`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all global history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.NewHistoryStore(db).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of entries (0 for all)")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Only show entries whose title or URL contains this text")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	hs := storage.NewHistoryStore(db)
	var entries []storage.HistoryEntry
	if historySearch != "" {
		entries, err = hs.Search(historySearch)
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}
	} else {
		entries, err = hs.List(historyLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.VisitedAt.Format("2006-01-02 15:04"), e.Title, e.URL)
	}
	return w.Flush()
}

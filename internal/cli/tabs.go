package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/ink/internal/storage"
)

var tabsJSON bool

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Show the tabs saved for the next start",
	Long: `Show the window state saved on quit when persist_all_tabs is on:
each tab with its navigation history. The current entry is marked with >.`,
	Args: cobra.NoArgs,
	RunE: runTabs,
}

func init() {
	rootCmd.AddCommand(tabsCmd)
	tabsCmd.Flags().BoolVar(&tabsJSON, "json", false, "Print the saved state as JSON")
}

func runTabs(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ws, ok, err := storage.NewTabStore(db).Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tabsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ws)
	}
	if !ok {
		fmt.Fprintln(out, "No saved tabs.")
		return nil
	}
	printWindow(out, ws)
	return nil
}

func printWindow(out io.Writer, ws storage.WindowState) {
	for _, tab := range ws.Tabs {
		focus := " "
		if tab.ID == ws.Active {
			focus = "*"
		}
		snap := tab.Snapshot
		fmt.Fprintf(out, "%s tab %d: %s (%d entries)\n", focus, tab.ID, tab.Title, snap.Size)
		for _, e := range snap.Entries {
			marker := " "
			if e.Position == snap.Current {
				marker = ">"
			}
			fmt.Fprintf(out, "    %s %3d  %s\n", marker, e.Position, e.URL)
		}
	}
}

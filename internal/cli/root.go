package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vidyasagar/ink/internal/app"
	"github.com/vidyasagar/ink/internal/logging"
	"github.com/vidyasagar/ink/internal/storage"
	"github.com/vidyasagar/ink/internal/theme"
)

var themeName string

var rootCmd = &cobra.Command{
	Use:   "ink [url or search]",
	Short: "A tabbed terminal browser shell with per-tab history",
	Long: `ink keeps a navigation history for every tab, with back/forward,
near-duplicate coalescing and a global history of visited pages.

Examples:
  ink                              # start on a new tab
  ink https://example.com          # open a URL
  ink golang.org                   # auto-adds https://
  ink how to use goroutines        # search DuckDuckGo
  ink --theme nord                 # use the nord theme`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowser,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&themeName, "theme", "t", "", "color theme ("+strings.Join(theme.List(), ", ")+")")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := storage.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	name := themeName
	if name == "" {
		name = cfg.Theme
	}
	if name == "" {
		name = theme.Default.Name
	}
	if !theme.Set(name) {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(theme.List(), ", "))
	}

	dataDir, err := storage.DataDir()
	if err != nil {
		return err
	}
	db, err := storage.OpenDB(dataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	log := logging.NewOrNop(logging.FileConfig(dataDir, cfg.LogLevel))
	defer log.Sync()

	m := app.New(app.Options{
		StartURL: strings.Join(args, " "),
		Config:   cfg,
		History:  storage.NewHistoryStore(db),
		Tabs:     storage.NewTabStore(db),
		Logger:   log,
	})
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// openDB opens the database in the data directory.
func openDB() (*storage.DB, error) {
	dataDir, err := storage.DataDir()
	if err != nil {
		return nil, err
	}
	return storage.OpenDB(dataDir)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"findpane/internal/clipboard"
	"findpane/internal/config"
	"findpane/internal/engine"
	"findpane/internal/eventbus"
	"findpane/internal/logging"
	"findpane/internal/prefs"
	"findpane/internal/ui"
	"findpane/internal/ui/coordinator"
)

// app holds the state shared by all commands
type app struct {
	cfgFile      string
	prefsBackend string
	prefsPath    string
	redisURL     string

	configSvc config.ConfigService
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "findpane [dir]",
		Short: "Search a source tree and browse the results",
		Long: `findpane searches the files of a decompiled source tree line by line and
shows the results in a dialog with a live, highlighted preview.

Search terms are remembered in a bounded history, and can be saved as
favorites. Both lists survive restarts.

Example usage:
  findpane ./out               # Open the search dialog on ./out
  findpane search onCreate     # Print matches without the dialog
  findpane history             # Show recent search terms
  findpane favorites add Intent`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		RunE: a.runDialog,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is <user config dir>/findpane/config.toml)")
	rootCmd.PersistentFlags().StringVar(&a.prefsBackend, "prefs-backend", "", "where history and favorites are kept: file, memory or redis")
	rootCmd.PersistentFlags().StringVar(&a.prefsPath, "prefs-path", "", "prefs file for the file backend")
	rootCmd.PersistentFlags().StringVar(&a.redisURL, "redis-url", "", "redis URL for the redis backend")

	rootCmd.AddCommand(newSearchCmd(a), newHistoryCmd(a), newFavoritesCmd(a))
	return rootCmd
}

// initConfig loads the config file and applies flag overrides
func (a *app) initConfig() error {
	a.configSvc = config.NewConfigServiceAt(a.cfgFile)
	cfg, err := a.configSvc.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if a.prefsBackend != "" {
		cfg.Prefs.Backend = a.prefsBackend
	}
	if a.prefsPath != "" {
		cfg.Prefs.Path = a.prefsPath
	}
	if a.redisURL != "" {
		cfg.Prefs.RedisURL = a.redisURL
	}

	a.cfg = cfg
	logging.SetDebug(cfg.Debug)
	return nil
}

// openPrefs opens the configured prefs store. The returned func releases it.
func (a *app) openPrefs() (prefs.Store, func(), error) {
	store, err := prefs.Open(prefs.Options{
		Backend:   a.cfg.Prefs.Backend,
		Path:      a.cfg.Prefs.Path,
		RedisURL:  a.cfg.Prefs.RedisURL,
		Namespace: a.cfg.Prefs.Namespace,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening prefs: %w", err)
	}
	release := func() {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return store, release, nil
}

// saveKeepOpen writes the keep-open preference to the config file
func (a *app) saveKeepOpen(keepOpen bool) error {
	a.cfg.UI.KeepDialogOpen = keepOpen
	if err := a.configSvc.Save(a.cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func (a *app) searchRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Search.Root
}

// runDialog runs the interactive search dialog
func (a *app) runDialog(cmd *cobra.Command, args []string) error {
	// Set up logging
	if err := os.MkdirAll(filepath.Dir(a.cfg.LogFile), 0o750); err == nil {
		if f, err := tea.LogToFile(a.cfg.LogFile, "findpane"); err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer f.Close()
		}
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, release, err := a.openPrefs()
	if err != nil {
		return err
	}
	defer release()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	coord := coordinator.NewCoordinator(bus, coordinator.Options{
		Title:            a.cfg.WindowTitle,
		Prefs:            store,
		Clipboard:        clipboard.NewSystem(),
		PreviewCacheSize: a.cfg.UI.PreviewCacheSize,
		KeepOpen:         a.cfg.UI.KeepDialogOpen,
	})

	coord.SetKeepOpenSaveFunction(a.saveKeepOpen)

	scanner := engine.NewScanner(a.searchRoot(args), a.cfg.Search.Extensions, a.cfg.Search.BatchSize)

	model := ui.NewModel(ctx, coord, scanner, a.cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			log.Println("Event channel full, dropping event")
		}
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventError,
		eventbus.EventHistoryChanged,
		eventbus.EventFavoritesChanged,
	} {
		bus.Subscribe(et, forward)
	}

	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	_, err = p.Run()

	// Cleanup
	coord.Close()
	scanner.Stop()
	bus.Close()
	close(eventChan)

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running dialog: %w", err)
	}
	return nil
}

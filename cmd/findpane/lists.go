package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"findpane/internal/eventbus"
	"findpane/internal/prefs"
	"findpane/internal/ui/services/favorites"
	"findpane/internal/ui/services/history"
	"findpane/internal/ui/services/lists"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [list|clear]",
		Short: "Show or clear the search history",
		Long: `Show or clear the search history.

The history keeps the 20 most recent search terms, newest first.

Examples:
  findpane history             # List recent terms
  findpane history clear       # Forget all of them`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"list", "clear"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := a.openPrefs()
			if err != nil {
				return err
			}
			defer release()

			h := history.NewStore(lists.NewStringList(store, prefs.KeyHistory), eventbus.NullBus{})
			switch action(args) {
			case "list":
				printList(cmd.OutOrStdout(), "History", h.All())
			case "clear":
				h.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("History cleared"))
			default:
				return fmt.Errorf("unknown history action %q", args[0])
			}
			return nil
		},
	}
	return cmd
}

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites [list|add <term>|clear]",
		Aliases: []string{"fav"},
		Short:   "Show, add or clear favorite search terms",
		Long: `Show, add or clear favorite search terms.

Favorites keep the order they were added in and never hold a term twice.

Examples:
  findpane favorites               # List favorites
  findpane favorites add onCreate  # Save a term
  findpane favorites clear         # Remove all favorites`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := a.openPrefs()
			if err != nil {
				return err
			}
			defer release()

			f := favorites.NewStore(lists.NewStringList(store, prefs.KeyFavorites), eventbus.NullBus{})
			out := cmd.OutOrStdout()
			switch action(args) {
			case "list":
				printList(out, "Favorites", f.All())
			case "add":
				if len(args) < 2 {
					return fmt.Errorf("favorites add needs a term")
				}
				if lists.ContainsDelimiter(args[1]) {
					fmt.Fprintln(out, color.YellowString("Warning: %q contains %q and will be split when read back", args[1], lists.Delimiter))
				}
				if f.Add(args[1]) {
					fmt.Fprintln(out, color.GreenString("Added %q", args[1]))
				} else {
					fmt.Fprintln(out, color.YellowString("Nothing added: %q is blank or already a favorite", args[1]))
				}
			case "clear":
				f.Clear()
				fmt.Fprintln(out, color.GreenString("Favorites cleared"))
			default:
				return fmt.Errorf("unknown favorites action %q", args[0])
			}
			return nil
		},
	}
	return cmd
}

func action(args []string) string {
	if len(args) == 0 {
		return "list"
	}
	return args[0]
}

func printList(w io.Writer, title string, entries []string) {
	header := color.New(color.Bold, color.FgCyan)
	header.Fprintf(w, "%s (%d)\n", title, len(entries))
	if len(entries) == 0 {
		fmt.Fprintln(w, color.HiBlackString("  (empty)"))
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("%2d", i+1), e)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"findpane/internal/domain"
	"findpane/internal/engine"
	"findpane/internal/eventbus"
	"findpane/internal/ui/coordinator"
)

type searchOptions struct {
	caseSensitive bool
	regex         bool
	wholeWord     bool
	sort          bool
	json          bool
}

type jsonResult struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Code   string `json:"code,omitempty"`
}

func newSearchCmd(a *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <term> [dir]",
		Short: "Search without the dialog and print the results",
		Long: `Search the tree for a term and print every matching line.

The term is recorded in the search history like a search in the dialog.

Examples:
  findpane search getString            # Case-insensitive text search
  findpane search -c -w View ./out     # Case-sensitive, whole word
  findpane search -r 'on[A-Z]\w+'      # Regular expression
  findpane search --json Intent        # Output as JSON`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.caseSensitive, "case", "c", false, "case sensitive")
	cmd.Flags().BoolVarP(&opts.regex, "regex", "r", false, "treat the term as a regular expression")
	cmd.Flags().BoolVarP(&opts.wholeWord, "word", "w", false, "match whole words only")
	cmd.Flags().BoolVar(&opts.sort, "sort", false, "sort results by name")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, args []string, opts *searchOptions) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, release, err := a.openPrefs()
	if err != nil {
		return err
	}
	defer release()

	coord := coordinator.NewCoordinator(eventbus.NullBus{}, coordinator.Options{
		Title: a.cfg.WindowTitle,
		Prefs: store,
	})
	defer coord.Close()

	term := args[0]
	coord.UpdateHighlight(term, opts.caseSensitive, opts.regex, opts.wholeWord)

	sink, err := coord.BeginSearch(ctx, term)
	if err != nil {
		return err
	}
	scanner := engine.NewScanner(a.searchRoot(args[1:]), a.cfg.Search.Extensions, a.cfg.Search.BatchSize)
	if err := scanner.Start(sink.Context(), coord.Highlight(), sink); err != nil {
		return fmt.Errorf("starting search: %w", err)
	}
	defer scanner.Stop()

	if err := coord.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if opts.sort {
		coord.Results.Sort()
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return printJSON(cmd, coord.Results.All())
	}

	for _, e := range coord.Results.All() {
		fmt.Fprintf(out, "%s  %s\n", color.CyanString(e.Name()), e.Description())
	}
	fmt.Fprintln(out, color.HiBlackString(coord.ResultsInfo()))
	return nil
}

func printJSON(cmd *cobra.Command, entries []domain.ResultEntry) error {
	results := make([]jsonResult, 0, len(entries))
	for _, e := range entries {
		r := jsonResult{Name: e.Name(), Code: e.Description()}
		if pos, ok := domain.PositionOf(e); ok {
			r.Path, r.Line, r.Column = pos.Path, pos.Line, pos.Column
		}
		results = append(results, r)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

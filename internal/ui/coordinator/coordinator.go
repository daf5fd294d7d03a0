package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"findpane/internal/clipboard"
	"findpane/internal/domain"
	"findpane/internal/eventbus"
	"findpane/internal/prefs"
	"findpane/internal/ui/services/favorites"
	"findpane/internal/ui/services/highlight"
	"findpane/internal/ui/services/history"
	"findpane/internal/ui/services/lists"
	"findpane/internal/ui/services/preview"
	"findpane/internal/ui/services/results"
	"findpane/internal/ui/services/selection"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Coordinator owns one search dialog: its results, the shared history and
// favorites, the highlight context and the search session state machine.
// Every method except Sink operations must be called from the single
// presentation goroutine that drains Inbox.
type Coordinator struct {
	// Services
	Results   *results.Store
	History   *history.Store
	Favorites *favorites.Store
	Preview   *preview.Service
	Selection *selection.Service

	// Dependencies
	bus  eventbus.EventBus
	clip clipboard.Clipboard

	title     string
	query     string
	highlight *highlight.Context
	keepOpen  bool

	state      domain.SessionState
	generation string
	genCtx     context.Context
	cancel     context.CancelFunc
	inbox      chan Batch

	fillFn    func(string) bool // fills the search field, false when there is none
	disposeFn func()
	saveFn    func(keepOpen bool) error
}

// NewCoordinator creates a coordinator with all services. History and
// favorites are loaded from opts.Prefs.
func NewCoordinator(bus eventbus.EventBus, opts Options) *Coordinator {
	store := opts.Prefs
	if store == nil {
		store = prefs.NewMemoryStore()
	}

	c := &Coordinator{
		Results:   results.NewStore(bus, opts.Comparator),
		History:   history.NewStore(lists.NewStringList(store, prefs.KeyHistory), bus),
		Favorites: favorites.NewStore(lists.NewStringList(store, prefs.KeyFavorites), bus),
		Preview:   preview.NewService(opts.PreviewCacheSize),
		bus:       bus,
		clip:      opts.Clipboard,
		title:     opts.Title,
		keepOpen:  opts.KeepOpen,
		state:     domain.StateIdle,
		inbox:     make(chan Batch, inboxSize),
	}
	c.Selection = selection.NewService(bus, c.Results, c.Preview, opts.Navigator)

	c.wireServices()

	return c
}

// wireServices connects services with their dependencies
func (c *Coordinator) wireServices() {
	c.Selection.SetHighlightFunction(c.Highlight)
	c.Selection.SetKeepOpenFunction(c.KeepOpen)
	c.Selection.SetClipboard(c.clip)
	c.Selection.SetDisposeFunction(func() {
		c.Close()
		if c.disposeFn != nil {
			c.disposeFn()
		}
	})
}

// SetSearchFieldFunction sets the callback used to replay a term into the search field
func (c *Coordinator) SetSearchFieldFunction(fn func(string) bool) {
	c.fillFn = fn
}

// SetDisposeFunction sets the callback run after the dialog closes itself
func (c *Coordinator) SetDisposeFunction(fn func()) {
	c.disposeFn = fn
}

// SetKeepOpenSaveFunction sets the callback that persists the keep-open
// preference. It runs on the caller's goroutine each time the value changes.
func (c *Coordinator) SetKeepOpenSaveFunction(fn func(keepOpen bool) error) {
	c.saveFn = fn
}

// Inbox is drained by the presentation loop; each batch goes to Apply
func (c *Coordinator) Inbox() <-chan Batch {
	return c.inbox
}

// BeginSearch clears the results and starts a new search generation.
// Any previous generation is cancelled and its late batches are discarded.
func (c *Coordinator) BeginSearch(ctx context.Context, query string) (*Sink, error) {
	if c.state == domain.StateClosed {
		return nil, ErrClosed
	}
	c.cancelGeneration()

	c.Results.Clear()
	c.Selection.Reset()
	c.Preview.Purge()

	c.generation = uuid.NewString()
	c.query = strings.TrimSpace(query)
	c.genCtx, c.cancel = context.WithCancel(ctx)
	c.state = domain.StateSearching

	c.bus.Publish(domain.SearchStartedEvent{
		Generation: c.generation,
		Query:      c.query,
	})

	return &Sink{
		generation: c.generation,
		ctx:        c.genCtx,
		inbox:      c.inbox,
	}, nil
}

// Apply adds a batch to the results if it belongs to the running generation.
// It reports whether the batch was applied.
func (c *Coordinator) Apply(b Batch) bool {
	if reason := c.discardReason(b); reason != "" {
		c.bus.Publish(domain.BatchDiscardedEvent{
			Generation: b.Generation,
			Size:       len(b.Entries),
			Reason:     reason,
		})
		return false
	}

	if len(b.Entries) > 0 {
		c.Results.AddBatch(b.Entries)
		c.state = domain.StatePopulated
	}

	if b.Final {
		c.state = domain.StateComplete
		c.cancelGeneration()
		c.bus.Publish(domain.SearchCompletedEvent{
			Generation: c.generation,
			Count:      c.Results.Size(),
		})
	}
	return true
}

func (c *Coordinator) discardReason(b Batch) string {
	switch {
	case c.state == domain.StateClosed:
		return ReasonClosed
	case b.Generation != c.generation:
		return ReasonStale
	case c.state == domain.StateComplete:
		return ReasonComplete
	case c.genCtx == nil || c.genCtx.Err() != nil:
		return ReasonCancelled
	}
	return ""
}

// Run drains the inbox until the current generation completes, the dialog
// closes or ctx is done. It is the presentation loop for headless use.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		switch c.state {
		case domain.StateComplete, domain.StateIdle:
			return nil
		case domain.StateClosed:
			return ErrClosed
		}

		select {
		case <-ctx.Done():
			c.CancelSearch()
			return ctx.Err()
		case b := <-c.inbox:
			c.Apply(b)
		}
	}
}

// CancelSearch stops the running generation. The results found so far stay.
func (c *Coordinator) CancelSearch() {
	if c.state != domain.StateSearching && c.state != domain.StatePopulated {
		return
	}
	c.cancelGeneration()
	c.state = domain.StateComplete
	c.bus.Publish(domain.SearchCancelledEvent{
		Generation: c.generation,
		Count:      c.Results.Size(),
	})
}

// Close cancels any running search and closes the dialog. Batches that arrive
// afterwards are discarded. Close is idempotent.
func (c *Coordinator) Close() {
	if c.state == domain.StateClosed {
		return
	}
	c.CancelSearch()
	c.cancelGeneration()
	c.state = domain.StateClosed
	c.bus.Publish(domain.DialogClosedEvent{})
}

func (c *Coordinator) cancelGeneration() {
	if c.cancel != nil {
		c.cancel()
	}
}

// State returns the session state
func (c *Coordinator) State() domain.SessionState {
	return c.state
}

// Generation returns the id of the current search generation
func (c *Coordinator) Generation() string {
	return c.generation
}

// Title is the window title, followed by the search term when there is one
func (c *Coordinator) Title() string {
	if c.query == "" {
		return c.title
	}
	if c.title == "" {
		return c.query
	}
	return c.title + ": " + c.query
}

// ResultsInfo is the status line shown under the results table
func (c *Coordinator) ResultsInfo() string {
	n := c.Results.Size()
	switch c.state {
	case domain.StateSearching, domain.StatePopulated:
		if n == 0 {
			return "Searching..."
		}
		return fmt.Sprintf("%d results (searching)", n)
	case domain.StateComplete:
		return fmt.Sprintf("%d results", n)
	default:
		return ""
	}
}

// Highlight returns the active highlight context, nil when highlighting is off
func (c *Coordinator) Highlight() *highlight.Context {
	return c.highlight
}

// UpdateHighlight sets the highlight used by the preview and records the
// term in the search history.
func (c *Coordinator) UpdateHighlight(text string, caseSensitive, regex, wholeWord bool) {
	c.highlight = highlight.New(text, caseSensitive, regex, wholeWord)
	c.query = strings.TrimSpace(text)
	if c.highlight.Active() {
		c.History.Add(text)
	}
	c.Preview.Purge()

	c.bus.Publish(domain.HighlightChangedEvent{
		Text:    c.highlight.Text,
		Enabled: c.highlight.Active(),
	})
}

// DisableHighlight turns preview highlighting off
func (c *Coordinator) DisableHighlight() {
	c.highlight = nil
	c.Preview.Purge()

	c.bus.Publish(domain.HighlightChangedEvent{})
}

// KeepOpen reports whether the dialog stays open after an entry is opened
func (c *Coordinator) KeepOpen() bool {
	return c.keepOpen
}

// SetKeepOpen changes the keep-open preference
func (c *Coordinator) SetKeepOpen(keep bool) {
	if c.keepOpen == keep {
		return
	}
	c.keepOpen = keep
	if c.saveFn != nil {
		if err := c.saveFn(keep); err != nil {
			log.Printf("coordinator: failed to save keep-open preference: %v", err)
		}
	}
	c.bus.Publish(domain.KeepOpenChangedEvent{KeepOpen: keep})
}

// ToggleKeepOpen flips the keep-open preference and returns the new value
func (c *Coordinator) ToggleKeepOpen() bool {
	c.SetKeepOpen(!c.keepOpen)
	return c.keepOpen
}

// AddCurrentToFavorites saves the active highlight term as a favorite.
// It reports false when there is no term or it is already a favorite.
func (c *Coordinator) AddCurrentToFavorites() bool {
	if !c.highlight.Active() {
		return false
	}
	return c.Favorites.Add(c.highlight.Text)
}

// Replay puts a history or favorite term back into the search field. When
// no field takes it the term is copied to the clipboard instead.
func (c *Coordinator) Replay(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if c.fillFn != nil && c.fillFn(text) {
		return nil
	}
	if err := c.copy(text); err != nil {
		return fmt.Errorf("replay %q: %w", text, err)
	}
	return nil
}

// CopyAllRefs copies the distinct code references of all results, one per
// line. It returns how many were copied.
func (c *Coordinator) CopyAllRefs() (int, error) {
	refs := lo.Uniq(lo.FilterMap(c.Results.All(), func(e domain.ResultEntry, _ int) (string, bool) {
		return e.Ref(), e.Ref() != ""
	}))
	return len(refs), c.copyLines(refs)
}

// CopyAllCode copies the description of every result that has one
func (c *Coordinator) CopyAllCode() (int, error) {
	code := lo.FilterMap(c.Results.All(), func(e domain.ResultEntry, _ int) (string, bool) {
		return e.Description(), domain.HasDescription(e)
	})
	return len(code), c.copyLines(code)
}

func (c *Coordinator) copyLines(lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return c.copy(sb.String())
}

func (c *Coordinator) copy(text string) error {
	if c.clip == nil {
		return errors.New("clipboard unavailable")
	}
	if err := c.clip.WriteAll(text); err != nil {
		log.Printf("coordinator: clipboard write failed: %v", err)
		return err
	}
	return nil
}

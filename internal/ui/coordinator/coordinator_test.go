package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"findpane/internal/clipboard"
	"findpane/internal/domain"
	"findpane/internal/eventbus"
	"findpane/internal/prefs"
	"findpane/internal/ui/services/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (l *eventLog) record(e eventbus.DomainEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) discarded() []domain.BatchDiscardedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.BatchDiscardedEvent
	for _, e := range l.events {
		if d, ok := e.(domain.BatchDiscardedEvent); ok {
			out = append(out, d)
		}
	}
	return out
}

func newTestCoordinator(t *testing.T, opts Options) (*Coordinator, *eventLog) {
	t.Helper()
	bus := eventbus.NewSync()
	log := &eventLog{}
	for _, et := range []eventbus.EventType{
		eventbus.EventBatchDiscarded,
		eventbus.EventSearchCompleted,
		eventbus.EventSearchCancelled,
		eventbus.EventDialogClosed,
		eventbus.EventKeepOpenChanged,
	} {
		bus.Subscribe(et, log.record)
	}
	return NewCoordinator(bus, opts), log
}

func entries(prefix string, n int, desc string) []domain.ResultEntry {
	out := make([]domain.ResultEntry, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = domain.Entry{EntryID: id, Label: id, Desc: desc, CodeRef: "ref-" + id}
	}
	return out
}

func drain(t *testing.T, c *Coordinator) {
	t.Helper()
	for {
		select {
		case b := <-c.Inbox():
			c.Apply(b)
		default:
			return
		}
	}
}

func TestSessionStateMachine(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{Title: "Find"})
	assert.Equal(t, domain.StateIdle, c.State())
	assert.Empty(t, c.ResultsInfo())

	sink, err := c.BeginSearch(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSearching, c.State())
	assert.Equal(t, "Searching...", c.ResultsInfo())
	assert.Equal(t, "Find: foo", c.Title())

	require.NoError(t, sink.Send(entries("a", 2, "")))
	drain(t, c)
	assert.Equal(t, domain.StatePopulated, c.State())
	assert.Equal(t, "2 results (searching)", c.ResultsInfo())

	require.NoError(t, sink.Send(entries("b", 1, "")))
	require.NoError(t, sink.Complete())
	drain(t, c)
	assert.Equal(t, domain.StateComplete, c.State())
	assert.Equal(t, "3 results", c.ResultsInfo())
	assert.Equal(t, 3, c.Results.Size())
}

func TestBatchesApplyInArrivalOrder(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})
	sink, err := c.BeginSearch(context.Background(), "x")
	require.NoError(t, err)

	go func() {
		for i := 0; i < 5; i++ {
			_ = sink.Send(entries(fmt.Sprintf("g%d-", i), 3, ""))
		}
		_ = sink.Complete()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	require.Equal(t, 15, c.Results.Size())
	for i := 0; i < 15; i++ {
		e, err := c.Results.Get(i)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("g%d-%d", i/3, i%3), e.ID())
	}
}

func TestSendCopiesBatch(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})
	sink, err := c.BeginSearch(context.Background(), "x")
	require.NoError(t, err)

	batch := entries("a", 2, "")
	require.NoError(t, sink.Send(batch))
	batch[0] = domain.Entry{EntryID: "mutated"}
	drain(t, c)

	e, err := c.Results.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "a0", e.ID())
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	c, log := newTestCoordinator(t, Options{})
	old, err := c.BeginSearch(context.Background(), "old")
	require.NoError(t, err)

	_, err = c.BeginSearch(context.Background(), "new")
	require.NoError(t, err)

	assert.Error(t, old.Send(entries("o", 1, "")), "superseded generation is cancelled")

	applied := c.Apply(Batch{Generation: old.Generation(), Entries: entries("o", 1, "")})
	assert.False(t, applied)
	assert.Equal(t, 0, c.Results.Size())

	d := log.discarded()
	require.Len(t, d, 1)
	assert.Equal(t, ReasonStale, d[0].Reason)
}

func TestBeginSearchClearsResults(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})
	sink, err := c.BeginSearch(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, sink.Send(entries("a", 2, "code")))
	require.NoError(t, sink.Complete())
	drain(t, c)
	assert.True(t, c.Results.HasDescColumn())

	_, err = c.BeginSearch(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Results.Size())
	assert.False(t, c.Results.HasDescColumn())
}

func TestCloseCancelsAndDiscards(t *testing.T) {
	c, log := newTestCoordinator(t, Options{})
	sink, err := c.BeginSearch(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, sink.Send(entries("a", 1, "")))

	c.Close()
	assert.Equal(t, domain.StateClosed, c.State())
	assert.ErrorIs(t, sink.Context().Err(), context.Canceled)
	assert.Error(t, sink.Send(entries("b", 1, "")))

	drain(t, c)
	assert.Equal(t, 0, c.Results.Size())
	d := log.discarded()
	require.Len(t, d, 1)
	assert.Equal(t, ReasonClosed, d[0].Reason)

	_, err = c.BeginSearch(context.Background(), "again")
	assert.ErrorIs(t, err, ErrClosed)

	c.Close()
	closed := 0
	for _, e := range log.events {
		if _, ok := e.(domain.DialogClosedEvent); ok {
			closed++
		}
	}
	assert.Equal(t, 1, closed)
}

func TestBatchAfterCompleteIsDiscarded(t *testing.T) {
	c, log := newTestCoordinator(t, Options{})
	sink, err := c.BeginSearch(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, sink.Complete())
	drain(t, c)
	assert.Equal(t, domain.StateComplete, c.State())

	assert.False(t, c.Apply(Batch{Generation: sink.Generation(), Entries: entries("late", 1, "")}))
	assert.Equal(t, 0, c.Results.Size())
	assert.Len(t, log.discarded(), 1)
}

func TestCancelSearchKeepsResults(t *testing.T) {
	c, log := newTestCoordinator(t, Options{})
	sink, err := c.BeginSearch(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, sink.Send(entries("a", 2, "")))
	drain(t, c)

	c.CancelSearch()
	assert.Equal(t, domain.StateComplete, c.State())
	assert.Equal(t, 2, c.Results.Size())
	assert.Error(t, sink.Send(entries("b", 1, "")))

	cancelled := 0
	for _, e := range log.events {
		if _, ok := e.(domain.SearchCancelledEvent); ok {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled)
}

func TestRunStopsOnContext(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})
	_, err := c.BeginSearch(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	assert.Equal(t, domain.StateComplete, c.State())
}

func TestUpdateHighlightRecordsHistory(t *testing.T) {
	store := prefs.NewMemoryStore()
	c, _ := newTestCoordinator(t, Options{Prefs: store})

	c.UpdateHighlight("foo", false, false, false)
	c.UpdateHighlight("bar", true, false, false)
	c.UpdateHighlight("foo", false, false, true)
	c.UpdateHighlight("   ", false, false, false)

	assert.Equal(t, []string{"foo", "bar"}, c.History.All())
	assert.False(t, c.Highlight().Active())

	raw, err := store.Get(prefs.KeyHistory)
	require.NoError(t, err)
	assert.Equal(t, "foo||bar", raw)

	c.UpdateHighlight("baz", false, false, false)
	assert.True(t, c.Highlight().Active())
	c.DisableHighlight()
	assert.Nil(t, c.Highlight())
}

func TestHistoryAndFavoritesLoadedFromPrefs(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Put(prefs.KeyHistory, "one||two"))
	require.NoError(t, store.Put(prefs.KeyFavorites, "fav"))

	c, _ := newTestCoordinator(t, Options{Prefs: store})

	assert.Equal(t, []string{"one", "two"}, c.History.All())
	assert.Equal(t, []string{"fav"}, c.Favorites.All())
}

func TestAddCurrentToFavorites(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})
	assert.False(t, c.AddCurrentToFavorites(), "no highlight")

	c.UpdateHighlight("term", false, false, false)
	assert.True(t, c.AddCurrentToFavorites())
	assert.False(t, c.AddCurrentToFavorites())
	assert.Equal(t, []string{"term"}, c.Favorites.All())
}

func TestReplay(t *testing.T) {
	clip := &clipboard.Memory{}
	c, _ := newTestCoordinator(t, Options{Clipboard: clip})

	require.NoError(t, c.Replay("no field"))
	assert.Equal(t, "no field", clip.Text())

	var filled string
	c.SetSearchFieldFunction(func(s string) bool {
		filled = s
		return true
	})
	require.NoError(t, c.Replay("into field"))
	assert.Equal(t, "into field", filled)
	assert.Equal(t, 1, clip.Writes())

	require.NoError(t, c.Replay("  "))
	assert.Equal(t, "into field", filled)
}

func TestReplayWithoutClipboard(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})
	assert.Error(t, c.Replay("term"))
}

func TestCopyAll(t *testing.T) {
	clip := &clipboard.Memory{}
	c, _ := newTestCoordinator(t, Options{Clipboard: clip})
	sink, err := c.BeginSearch(context.Background(), "x")
	require.NoError(t, err)
	require.NoError(t, sink.Send([]domain.ResultEntry{
		domain.Entry{EntryID: "1", CodeRef: "A.m()", Desc: "m();"},
		domain.Entry{EntryID: "2", CodeRef: "A.m()"},
		domain.Entry{EntryID: "3", CodeRef: "B.n()", Desc: "n();"},
		domain.Entry{EntryID: "4"},
	}))
	drain(t, c)

	n, err := c.CopyAllRefs()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "A.m()\nB.n()\n", clip.Text())

	n, err = c.CopyAllCode()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "m();\nn();\n", clip.Text())
}

func TestKeepOpen(t *testing.T) {
	c, log := newTestCoordinator(t, Options{KeepOpen: true})
	assert.True(t, c.KeepOpen())

	c.SetKeepOpen(true)
	assert.Empty(t, log.events)

	assert.False(t, c.ToggleKeepOpen())
	require.Len(t, log.events, 1)
	assert.Equal(t, domain.KeepOpenChangedEvent{KeepOpen: false}, log.events[0])
}

func TestKeepOpenSavedInOrder(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{})

	var saved []bool
	c.SetKeepOpenSaveFunction(func(keep bool) error {
		saved = append(saved, keep)
		return nil
	})

	for i := 0; i < 5; i++ {
		c.ToggleKeepOpen()
	}
	c.SetKeepOpen(true)

	assert.Equal(t, []bool{true, false, true, false, true}, saved)
	assert.Equal(t, c.KeepOpen(), saved[len(saved)-1])
}

func TestKeepOpenSaveFailureKeepsValue(t *testing.T) {
	c, log := newTestCoordinator(t, Options{})
	c.SetKeepOpenSaveFunction(func(bool) error { return errors.New("disk full") })

	assert.True(t, c.ToggleKeepOpen())
	assert.True(t, c.KeepOpen())
	require.Len(t, log.events, 1)
}

func TestTitleFollowsHighlightTerm(t *testing.T) {
	c, _ := newTestCoordinator(t, Options{Title: "Find"})
	assert.Equal(t, "Find", c.Title())

	c.UpdateHighlight(" foo ", false, false, false)
	assert.Equal(t, "Find: foo", c.Title())

	c.UpdateHighlight("   ", false, false, false)
	assert.Equal(t, "Find", c.Title())
}

func TestOpenClosesDialogUnlessKeepOpen(t *testing.T) {
	var jumps []domain.JumpTarget
	nav := selection.NavigatorFunc(func(target domain.JumpTarget) error {
		jumps = append(jumps, target)
		return nil
	})

	c, _ := newTestCoordinator(t, Options{Navigator: nav})
	disposed := false
	c.SetDisposeFunction(func() { disposed = true })

	sink, err := c.BeginSearch(context.Background(), "x")
	require.NoError(t, err)
	require.NoError(t, sink.Send(entries("a", 1, "")))
	drain(t, c)

	c.Selection.Select(0)
	require.NoError(t, c.Selection.OpenSelected())

	assert.Len(t, jumps, 1)
	assert.True(t, disposed)
	assert.Equal(t, domain.StateClosed, c.State())
}

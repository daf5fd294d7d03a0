package coordinator

import (
	"context"
	"errors"
	"slices"

	"findpane/internal/clipboard"
	"findpane/internal/domain"
	"findpane/internal/prefs"
	"findpane/internal/ui/services/results"
	"findpane/internal/ui/services/selection"
)

// ErrClosed is returned once the dialog has been closed
var ErrClosed = errors.New("search dialog closed")

const inboxSize = 100

// Discard reasons reported in domain.BatchDiscardedEvent
const (
	ReasonClosed    = "closed"
	ReasonStale     = "stale"
	ReasonCancelled = "cancelled"
	ReasonComplete  = "complete"
)

// Options configures a Coordinator
type Options struct {
	Title            string
	Prefs            prefs.Store
	Clipboard        clipboard.Clipboard
	Navigator        selection.Navigator
	Comparator       results.Comparator
	PreviewCacheSize int
	KeepOpen         bool
}

// Batch is a group of entries produced by one search generation.
// The final batch of a generation has Final set and may be empty.
type Batch struct {
	Generation string
	Entries    []domain.ResultEntry
	Final      bool
}

// Sink is the producer side of one search generation. It is safe to use
// from the search engine's goroutine; the entries are applied later by
// whoever drains the coordinator's inbox.
type Sink struct {
	generation string
	ctx        context.Context
	inbox      chan<- Batch
}

// Generation returns the id of the search generation this sink feeds
func (s *Sink) Generation() string {
	return s.generation
}

// Context is cancelled when the generation is superseded or the dialog closes
func (s *Sink) Context() context.Context {
	return s.ctx
}

// Send hands a copy of entries to the presentation loop. It blocks while the
// inbox is full and fails only when the generation has been cancelled.
func (s *Sink) Send(entries []domain.ResultEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.push(Batch{
		Generation: s.generation,
		Entries:    slices.Clone(entries),
	})
}

// Complete marks the end of the generation
func (s *Sink) Complete() error {
	return s.push(Batch{
		Generation: s.generation,
		Final:      true,
	})
}

func (s *Sink) push(b Batch) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	select {
	case s.inbox <- b:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

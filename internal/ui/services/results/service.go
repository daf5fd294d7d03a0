package results

import (
	"fmt"
	"slices"

	"findpane/internal/domain"
	"findpane/internal/eventbus"

	"github.com/samber/lo"
)

// Store is the ordered collection of result entries for one dialog.
// It is confined to the presentation goroutine and does no locking.
type Store struct {
	state *State
	bus   eventbus.EventBus
	cmp   Comparator
}

// NewStore creates an empty results store. A nil comparator means domain.CompareEntries.
func NewStore(bus eventbus.EventBus, cmp Comparator) *Store {
	if cmp == nil {
		cmp = domain.CompareEntries
	}
	return &Store{
		state: &State{
			Rows: make([]domain.ResultEntry, 0),
		},
		bus: bus,
		cmp: cmp,
	}
}

// AddBatch appends entries in arrival order
func (s *Store) AddBatch(entries []domain.ResultEntry) {
	entries = lo.Filter(entries, func(e domain.ResultEntry, _ int) bool {
		return e != nil
	})
	if len(entries) == 0 {
		return
	}

	s.state.Rows = append(s.state.Rows, entries...)
	if !s.state.HasDescColumn {
		s.state.HasDescColumn = slices.ContainsFunc(entries, domain.HasDescription)
	}
	s.state.Changed = true

	s.bus.Publish(domain.RowsChangedEvent{
		Added:         len(entries),
		Total:         len(s.state.Rows),
		HasDescColumn: s.state.HasDescColumn,
	})
}

// Clear empties the store and resets the description column flag.
// Call before starting a new search generation.
func (s *Store) Clear() {
	s.state.Rows = make([]domain.ResultEntry, 0)
	s.state.HasDescColumn = false
	s.state.Changed = true

	s.bus.Publish(domain.ResultsClearedEvent{})
}

// Sort orders the rows with the store's comparator; equal rows keep their order
func (s *Store) Sort() {
	slices.SortStableFunc(s.state.Rows, s.cmp)
	s.state.Changed = true

	s.bus.Publish(domain.ResultsSortedEvent{Total: len(s.state.Rows)})
}

// Get returns the entry at index
func (s *Store) Get(index int) (domain.ResultEntry, error) {
	if index < 0 || index >= len(s.state.Rows) {
		return nil, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, index, len(s.state.Rows))
	}
	return s.state.Rows[index], nil
}

// Size returns the number of rows
func (s *Store) Size() int {
	return len(s.state.Rows)
}

// HasDescColumn reports whether the secondary description column should be shown
func (s *Store) HasDescColumn() bool {
	return s.state.HasDescColumn
}

// All returns a copy of the rows
func (s *Store) All() []domain.ResultEntry {
	return slices.Clone(s.state.Rows)
}

// TakeChanged reports whether rows changed since the last call and resets the flag
func (s *Store) TakeChanged() bool {
	changed := s.state.Changed
	s.state.Changed = false
	return changed
}

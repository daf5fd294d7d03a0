package favorites

import (
	"log"
	"strings"

	"findpane/internal/domain"
	"findpane/internal/eventbus"
	"findpane/internal/ui/services/lists"

	"github.com/samber/lo"
)

// Store is the unbounded, duplicate-free list of saved search terms
type Store struct {
	state *State
	list  *lists.StringList
	bus   eventbus.EventBus
}

// NewStore creates a favorites store and loads the persisted entries
func NewStore(list *lists.StringList, bus eventbus.EventBus) *Store {
	s := &Store{
		state: &State{},
		list:  list,
		bus:   bus,
	}
	s.Reload()
	return s
}

// Reload replaces the in-memory entries with the persisted ones
func (s *Store) Reload() {
	s.state.Entries = lo.Uniq(s.list.Load())
}

// Add appends text unless it is blank or already saved.
// Returns true when the list changed.
func (s *Store) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || s.Contains(text) {
		return false
	}
	if lists.ContainsDelimiter(text) {
		log.Printf("favorites: %q contains %q and will be split when reloaded", text, lists.Delimiter)
	}

	s.state.Entries = append(s.state.Entries, text)
	s.save()
	return true
}

// Contains reports whether text is saved (exact, case-sensitive match)
func (s *Store) Contains(text string) bool {
	return lo.Contains(s.state.Entries, text)
}

// Clear removes every favorite
func (s *Store) Clear() {
	s.state.Entries = []string{}
	s.save()
}

// All returns a copy of the favorites in insertion order
func (s *Store) All() []string {
	out := make([]string, len(s.state.Entries))
	copy(out, s.state.Entries)
	return out
}

// Len returns the number of favorites
func (s *Store) Len() int {
	return len(s.state.Entries)
}

func (s *Store) save() {
	s.list.Save(s.state.Entries)
	s.bus.Publish(domain.FavoritesChangedEvent{Entries: s.All()})
}

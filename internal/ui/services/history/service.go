package history

import (
	"log"
	"strings"

	"findpane/internal/domain"
	"findpane/internal/eventbus"
	"findpane/internal/ui/services/lists"

	"github.com/samber/lo"
)

// Store is the bounded, recency-ordered list of past search terms.
// Every mutation is persisted before it returns.
type Store struct {
	state *State
	list  *lists.StringList
	bus   eventbus.EventBus
}

// NewStore creates a history store and loads the persisted entries
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
	entries := s.list.Load()
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.state.Entries = entries
}

// Add records text as the most recent search term.
// Blank text is ignored; an existing equal entry is moved to the front.
func (s *Store) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if lists.ContainsDelimiter(text) {
		log.Printf("history: %q contains %q and will be split when reloaded", text, lists.Delimiter)
	}

	entries := lo.Without(s.state.Entries, text)
	entries = append([]string{text}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.state.Entries = entries

	s.save()
}

// Clear forgets every entry
func (s *Store) Clear() {
	s.state.Entries = []string{}
	s.save()
}

// All returns a copy of the entries, most recent first
func (s *Store) All() []string {
	out := make([]string, len(s.state.Entries))
	copy(out, s.state.Entries)
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.state.Entries)
}

func (s *Store) save() {
	s.list.Save(s.state.Entries)
	s.bus.Publish(domain.HistoryChangedEvent{Entries: s.All()})
}

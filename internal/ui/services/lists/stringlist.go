// Package lists persists ordered string lists as a single delimited value
// in a prefs.Store.
package lists

import (
	"log"
	"strings"

	"findpane/internal/prefs"
)

// Delimiter separates entries in the stored value.
// Entries containing it are stored as-is and split apart on the next load.
const Delimiter = "||"

// StringList reads and writes one list under one key
type StringList struct {
	store prefs.Store
	key   string
}

// NewStringList binds a list to a key of the store
func NewStringList(store prefs.Store, key string) *StringList {
	return &StringList{
		store: store,
		key:   key,
	}
}

// Key returns the store key this list is persisted under
func (l *StringList) Key() string {
	return l.key
}

// Load reads the list. A missing, empty or unreadable value yields an empty list.
func (l *StringList) Load() []string {
	raw, err := l.store.Get(l.key)
	if err != nil {
		log.Printf("lists: failed to read %q: %v", l.key, err)
		return []string{}
	}
	return Decode(raw)
}

// Save writes the list. Write failures are logged and otherwise ignored.
func (l *StringList) Save(list []string) {
	if err := l.store.Put(l.key, Encode(list)); err != nil {
		log.Printf("lists: failed to write %q: %v", l.key, err)
	}
}

// Encode joins the entries with Delimiter
func Encode(list []string) string {
	return strings.Join(list, Delimiter)
}

// Decode splits raw on Delimiter and drops empty trailing fragments
func Decode(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, Delimiter)
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}

// ContainsDelimiter reports whether s would be split apart by a save/load round trip
func ContainsDelimiter(s string) bool {
	return strings.Contains(s, Delimiter)
}

package history

// MaxEntries caps the number of remembered search terms
const MaxEntries = 20

// State holds the history entries, most recent first
type State struct {
	Entries []string
}

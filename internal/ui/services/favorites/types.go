package favorites

// State holds the saved search terms in insertion order
type State struct {
	Entries []string
}

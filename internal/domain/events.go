package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted    EventType = "SearchStarted"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchCancelled  EventType = "SearchCancelled"
	EventRowsChanged      EventType = "RowsChanged"
	EventResultsCleared   EventType = "ResultsCleared"
	EventResultsSorted    EventType = "ResultsSorted"
	EventBatchDiscarded   EventType = "BatchDiscarded"
	EventHistoryChanged   EventType = "HistoryChanged"
	EventFavoritesChanged EventType = "FavoritesChanged"
	EventSelectionChanged EventType = "SelectionChanged"
	EventEntryOpened      EventType = "EntryOpened"
	EventHighlightChanged EventType = "HighlightChanged"
	EventKeepOpenChanged  EventType = "KeepOpenChanged"
	EventDialogClosed     EventType = "DialogClosed"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a new search generation begins
type SearchStartedEvent struct {
	Generation string
	Query      string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when the producer has delivered its last batch
type SearchCompletedEvent struct {
	Generation string
	Count      int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchCancelledEvent is emitted when a running generation is cancelled
type SearchCancelledEvent struct {
	Generation string
	Count      int
}

func (e SearchCancelledEvent) Type() EventType { return EventSearchCancelled }

// RowsChangedEvent is emitted after a batch has been appended to the results
type RowsChangedEvent struct {
	Added         int
	Total         int
	HasDescColumn bool
}

func (e RowsChangedEvent) Type() EventType { return EventRowsChanged }

// ResultsClearedEvent is emitted when the results store is emptied
type ResultsClearedEvent struct{}

func (e ResultsClearedEvent) Type() EventType { return EventResultsCleared }

// ResultsSortedEvent is emitted after the results have been re-ordered
type ResultsSortedEvent struct {
	Total int
}

func (e ResultsSortedEvent) Type() EventType { return EventResultsSorted }

// BatchDiscardedEvent is emitted when a batch arrives for a stale or closed session
type BatchDiscardedEvent struct {
	Generation string
	Size       int
	Reason     string
}

func (e BatchDiscardedEvent) Type() EventType { return EventBatchDiscarded }

// HistoryChangedEvent is emitted after the search history has been persisted
type HistoryChangedEvent struct {
	Entries []string
}

func (e HistoryChangedEvent) Type() EventType { return EventHistoryChanged }

// FavoritesChangedEvent is emitted after the favorites have been persisted
type FavoritesChangedEvent struct {
	Entries []string
}

func (e FavoritesChangedEvent) Type() EventType { return EventFavoritesChanged }

// SelectionChangedEvent is emitted when a different row is selected
type SelectionChangedEvent struct {
	Index int
	Entry ResultEntry // nil when nothing is selected
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// EntryOpenedEvent is emitted after a navigation request has been dispatched
type EntryOpenedEvent struct {
	Target JumpTarget
}

func (e EntryOpenedEvent) Type() EventType { return EventEntryOpened }

// HighlightChangedEvent is emitted when the highlight term is set or cleared
type HighlightChangedEvent struct {
	Text    string
	Enabled bool
}

func (e HighlightChangedEvent) Type() EventType { return EventHighlightChanged }

// KeepOpenChangedEvent is emitted when the keep-dialog-open preference changes
type KeepOpenChangedEvent struct {
	KeepOpen bool
}

func (e KeepOpenChangedEvent) Type() EventType { return EventKeepOpenChanged }

// DialogClosedEvent is emitted once the dialog has been torn down
type DialogClosedEvent struct{}

func (e DialogClosedEvent) Type() EventType { return EventDialogClosed }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

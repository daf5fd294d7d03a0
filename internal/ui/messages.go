package ui

import (
	"findpane/internal/eventbus"
	"findpane/internal/ui/coordinator"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// batchMsg carries one batch from the coordinator inbox into Update
type batchMsg struct {
	batch coordinator.Batch
}

// searchFailedMsg reports that the search engine could not be started
type searchFailedMsg struct {
	err error
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// editorFinishedMsg is sent when the external editor exits
type editorFinishedMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}

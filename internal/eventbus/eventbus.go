package eventbus

import (
	"findpane/internal/domain"
	"log"
	"runtime/debug"
	"sync"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchStarted    = domain.EventSearchStarted
	EventSearchCompleted  = domain.EventSearchCompleted
	EventSearchCancelled  = domain.EventSearchCancelled
	EventRowsChanged      = domain.EventRowsChanged
	EventResultsCleared   = domain.EventResultsCleared
	EventResultsSorted    = domain.EventResultsSorted
	EventBatchDiscarded   = domain.EventBatchDiscarded
	EventHistoryChanged   = domain.EventHistoryChanged
	EventFavoritesChanged = domain.EventFavoritesChanged
	EventSelectionChanged = domain.EventSelectionChanged
	EventEntryOpened      = domain.EventEntryOpened
	EventHighlightChanged = domain.EventHighlightChanged
	EventKeepOpenChanged  = domain.EventKeepOpenChanged
	EventDialogClosed     = domain.EventDialogClosed
	EventError            = domain.EventError
)

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

// subscription wraps a handler so unsubscribe can find it by identity
type subscription struct {
	handler EventHandler
}

// handlerSet is shared by the async and sync buses
type handlerSet struct {
	mu       sync.RWMutex
	handlers map[EventType][]*subscription
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (hs *handlerSet) Subscribe(eventType EventType, handler EventHandler) func() {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	sub := &subscription{handler: handler}
	hs.handlers[eventType] = append(hs.handlers[eventType], sub)

	return func() {
		hs.mu.Lock()
		defer hs.mu.Unlock()

		subs := hs.handlers[eventType]
		for i, s := range subs {
			if s == sub {
				hs.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// snapshot copies the handlers so the lock is not held while they run
func (hs *handlerSet) snapshot(eventType EventType) []EventHandler {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	subs := hs.handlers[eventType]
	out := make([]EventHandler, len(subs))
	for i, s := range subs {
		out[i] = s.handler
	}
	return out
}

// AsyncBus is the concrete asynchronous implementation of EventBus
type AsyncBus struct {
	handlerSet
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus whose handlers run off the publisher's goroutine
func New() *AsyncBus {
	b := &AsyncBus{
		handlerSet: handlerSet{handlers: make(map[EventType][]*subscription)},
		eventChan:  make(chan DomainEvent, 1000),
		quit:       make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *AsyncBus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventRowsChanged, EventSelectionChanged:
	default:
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Close stops the dispatcher and discards queued events
func (b *AsyncBus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *AsyncBus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			for _, handler := range b.snapshot(event.Type()) {
				// Call handler in a goroutine to avoid blocking
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

// syncBus runs handlers inline on the publishing goroutine
type syncBus struct {
	handlerSet
}

// NewSync creates a bus that delivers events synchronously and in order.
// Used by headless commands and tests where the publisher is the consumer.
func NewSync() EventBus {
	return &syncBus{handlerSet: handlerSet{handlers: make(map[EventType][]*subscription)}}
}

func (b *syncBus) Publish(event DomainEvent) {
	for _, h := range b.snapshot(event.Type()) {
		h(event)
	}
}

// NullBus is a no-op implementation of EventBus
type NullBus struct{}

func (NullBus) Publish(event DomainEvent) {}
func (NullBus) Subscribe(eventType EventType, handler EventHandler) func() {
	return func() {}
}

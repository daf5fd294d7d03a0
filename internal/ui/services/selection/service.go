package selection

import (
	"errors"
	"fmt"
	"log"

	"findpane/internal/clipboard"
	"findpane/internal/domain"
	"findpane/internal/eventbus"
	"findpane/internal/logging"
	"findpane/internal/ui/services/highlight"
	"findpane/internal/ui/services/preview"
)

// ErrNoSelection is returned by actions that need a selected row
var ErrNoSelection = errors.New("no entry selected")

// Service maps the selected row to an entry, its preview and its navigation target
type Service struct {
	state     *State
	source    Source
	preview   *preview.Service
	navigator Navigator
	clip      clipboard.Clipboard
	bus       eventbus.EventBus

	keepOpenFn  func() bool               // persisted "keep dialog open" preference
	disposeFn   func()                    // tears the dialog down
	highlightFn func() *highlight.Context // active highlight, nil when disabled
}

// NewService creates a selection service over source
func NewService(bus eventbus.EventBus, source Source, pv *preview.Service, nav Navigator) *Service {
	return &Service{
		state:     &State{Index: NoSelection},
		source:    source,
		preview:   pv,
		navigator: nav,
		bus:       bus,
	}
}

// SetKeepOpenFunction sets the function reading the keep-open preference
func (s *Service) SetKeepOpenFunction(fn func() bool) {
	s.keepOpenFn = fn
}

// SetDisposeFunction sets the callback that closes the dialog after an open
func (s *Service) SetDisposeFunction(fn func()) {
	s.disposeFn = fn
}

// SetHighlightFunction sets the function returning the active highlight context
func (s *Service) SetHighlightFunction(fn func() *highlight.Context) {
	s.highlightFn = fn
}

// SetClipboard sets the clipboard used by CopySelected
func (s *Service) SetClipboard(clip clipboard.Clipboard) {
	s.clip = clip
}

// SetNavigator replaces the navigator
func (s *Service) SetNavigator(nav Navigator) {
	s.navigator = nav
}

// SelectedEntry returns the entry at index, or false for -1, an out of range
// index or any failure of the source. It never panics.
func (s *Service) SelectedEntry(index int) (entry domain.ResultEntry, ok bool) {
	if index == NoSelection {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("selection: reading row %d panicked: %v", index, r)
			entry, ok = nil, false
		}
	}()

	e, err := s.source.Get(index)
	if err != nil {
		logging.Debugf("selection: %v", err)
		return nil, false
	}
	return e, e != nil
}

// Select makes index the current row and returns its preview
func (s *Service) Select(index int) preview.Preview {
	entry, ok := s.SelectedEntry(index)
	if !ok {
		index = NoSelection
	}
	s.state.Index = index

	s.bus.Publish(domain.SelectionChangedEvent{
		Index: index,
		Entry: entry,
	})

	if !ok {
		return preview.Preview{}
	}
	return s.preview.Render(entry, s.highlight())
}

// Refresh renders the preview of the current row again, e.g. after the highlight changed
func (s *Service) Refresh() preview.Preview {
	entry, ok := s.SelectedEntry(s.state.Index)
	if !ok {
		return preview.Preview{}
	}
	return s.preview.Render(entry, s.highlight())
}

// Index returns the selected row, or NoSelection
func (s *Service) Index() int {
	return s.state.Index
}

// Reset forgets the selection
func (s *Service) Reset() {
	s.state.Index = NoSelection
}

// Open asks the navigator to jump to entry. The source position is used when
// the entry has one. Unless the keep-open preference is set the dialog is
// disposed afterwards. Repeated opens are passed through unchanged.
func (s *Service) Open(entry domain.ResultEntry) error {
	if entry == nil {
		return ErrNoSelection
	}

	target := domain.JumpTarget{Entry: entry}
	if pos, ok := domain.PositionOf(entry); ok {
		target.Position = &pos
	}

	if s.navigator == nil {
		return fmt.Errorf("open %s: no navigator", target)
	}
	if err := s.navigator.Jump(target); err != nil {
		s.bus.Publish(domain.ErrorEvent{Message: "open failed", Err: err})
		return fmt.Errorf("open %s: %w", target, err)
	}

	s.bus.Publish(domain.EntryOpenedEvent{Target: target})

	if s.keepOpenFn != nil && s.keepOpenFn() {
		return nil
	}
	if s.disposeFn != nil {
		s.disposeFn()
	}
	return nil
}

// OpenSelected opens the current row
func (s *Service) OpenSelected() error {
	entry, ok := s.SelectedEntry(s.state.Index)
	if !ok {
		return ErrNoSelection
	}
	return s.Open(entry)
}

// CopySelected copies the long display string of the current row
func (s *Service) CopySelected() error {
	entry, ok := s.SelectedEntry(s.state.Index)
	if !ok {
		return ErrNoSelection
	}
	if s.clip == nil {
		return errors.New("clipboard unavailable")
	}
	return s.clip.WriteAll(LongName(entry))
}

// LongName is the display name followed by the source position, if any
func LongName(entry domain.ResultEntry) string {
	if pos, ok := domain.PositionOf(entry); ok {
		return entry.Name() + "  " + pos.String()
	}
	return entry.Name()
}

func (s *Service) highlight() *highlight.Context {
	if s.highlightFn == nil {
		return nil
	}
	return s.highlightFn()
}

package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"findpane/internal/config"
	"findpane/internal/domain"
	"findpane/internal/engine"
	"findpane/internal/ui/coordinator"
	"findpane/internal/ui/logic"
	"findpane/internal/ui/services/preview"
	"findpane/internal/ui/views"
)

const statusTimeout = 3 * time.Second

// Model represents the UI state of the search dialog
type Model struct {
	ctx     context.Context
	config  *config.Config
	coord   *coordinator.Coordinator
	scanner *engine.Scanner

	// UI-specific state
	width         int
	height        int
	input         textinput.Model
	caseSensitive bool
	regex         bool
	wholeWord     bool
	preview       preview.Preview
	status        string
	statusIsError bool
	historyPos    int // position of the last replayed history entry
	favoritePos   int
	inPagerMode   bool // tracks if we're currently in pager mode
	quitting      bool

	// Handlers
	navigator *logic.Navigator
	renderer  *views.Renderer
	editor    *editorNavigator
	pager     *PagerOps
	program   *tea.Program
}

// NewModel creates the dialog model. The coordinator's navigator is
// replaced by one that opens results in the configured editor.
func NewModel(ctx context.Context, coord *coordinator.Coordinator, scanner *engine.Scanner, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "search text"
	ti.Prompt = "Search:"
	ti.PromptStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		MarginRight(1).
		Padding(0, 1)
	ti.Focus()

	m := &Model{
		ctx:         ctx,
		config:      cfg,
		coord:       coord,
		scanner:     scanner,
		input:       ti,
		historyPos:  -1,
		favoritePos: -1,
		navigator:   logic.NewNavigator(),
		renderer:    views.NewRenderer(),
		editor:      newEditorNavigator(cfg.Editor),
		pager:       NewPagerOps(nil),
	}

	coord.Selection.SetNavigator(m.editor)
	coord.SetSearchFieldFunction(func(text string) bool {
		m.input.SetValue(text)
		m.input.CursorEnd()
		return true
	})
	coord.SetDisposeFunction(func() {
		m.quitting = true
	})

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// SetQuery pre-fills the search field
func (m *Model) SetQuery(query string) {
	m.input.SetValue(query)
	m.input.CursorEnd()
}

// Init starts listening for result batches
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForBatch()}
	if m.input.Value() != "" {
		cmds = append(cmds, func() tea.Msg {
			return tea.KeyMsg{Type: tea.KeyEnter}
		})
	}
	return tea.Batch(cmds...)
}

// waitForBatch delivers the next batch from the coordinator inbox to Update
func (m *Model) waitForBatch() tea.Cmd {
	inbox := m.coord.Inbox()
	return func() tea.Msg {
		return batchMsg{batch: <-inbox}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width / 2
		m.navigator.SetViewportHeight(m.listHeight())
		return m, nil

	case batchMsg:
		m.applyBatch(msg.batch)
		if m.coord.State() == domain.StateClosed {
			return m, nil
		}
		return m, m.waitForBatch()

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case searchFailedMsg:
		return m, m.setStatus(msg.err.Error(), true)

	case editorFinishedMsg:
		if msg.err != nil {
			log.Printf("ui: editor exited: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Editor failed: %v", msg.err), true)
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			log.Printf("ui: pager failed: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.statusIsError = false
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit(), true
	case "esc":
		if s := m.coord.State(); s == domain.StateSearching || s == domain.StatePopulated {
			m.coord.CancelSearch()
			return m.setStatus("Search stopped", false), true
		}
		return m.quit(), true
	case "enter":
		return m.startSearch(), true
	case "up":
		m.selectRow(m.navigator.Move(-1))
		return nil, true
	case "down":
		m.selectRow(m.navigator.Move(1))
		return nil, true
	case "pgup":
		m.selectRow(m.navigator.PageUp())
		return nil, true
	case "pgdown":
		m.selectRow(m.navigator.PageDown())
		return nil, true
	case "ctrl+o":
		return m.openSelected(), true
	case "ctrl+s":
		m.coord.Results.Sort()
		m.selectRow(m.navigator.GetSelectedIndex())
		return nil, true
	case "alt+c":
		m.caseSensitive = !m.caseSensitive
		return m.optionsChanged(), true
	case "alt+x":
		m.regex = !m.regex
		return m.optionsChanged(), true
	case "alt+w":
		m.wholeWord = !m.wholeWord
		return m.optionsChanged(), true
	case "ctrl+t":
		if m.coord.ToggleKeepOpen() {
			return m.setStatus("Dialog stays open after opening a result", false), true
		}
		return m.setStatus("Dialog closes after opening a result", false), true
	case "ctrl+y":
		if err := m.coord.Selection.CopySelected(); err != nil {
			return m.setStatus(err.Error(), true), true
		}
		return m.setStatus("Copied", false), true
	case "ctrl+g":
		n, err := m.coord.CopyAllRefs()
		return m.copiedStatus(n, "references", err), true
	case "ctrl+l":
		n, err := m.coord.CopyAllCode()
		return m.copiedStatus(n, "code lines", err), true
	case "ctrl+r":
		return m.replayNext(m.coord.History.All(), &m.historyPos, "history"), true
	case "alt+v":
		return m.replayNext(m.coord.Favorites.All(), &m.favoritePos, "favorites"), true
	case "alt+s":
		if m.coord.AddCurrentToFavorites() {
			return m.setStatus("Added to favorites", false), true
		}
		return m.setStatus("Nothing new to add to favorites", false), true
	case "f1":
		return m.showInPager(renderHelpContent()), true
	case "f3":
		if m.preview.Empty() {
			return m.setStatus("Nothing to preview", false), true
		}
		return m.showInPager(m.preview.Text), true
	}
	return nil, false
}

func (m *Model) startSearch() tea.Cmd {
	term := m.input.Value()
	m.coord.UpdateHighlight(term, m.caseSensitive, m.regex, m.wholeWord)
	hl := m.coord.Highlight()
	if !hl.Active() {
		return m.setStatus("Enter text to search for", true)
	}
	m.historyPos = -1

	sink, err := m.coord.BeginSearch(m.ctx, term)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.navigator.Reset()
	m.navigator.SetViewportHeight(m.listHeight())
	m.preview = preview.Preview{}

	// the previous generation is already cancelled; wait for its scan to wind down
	m.scanner.Stop()
	if err := m.scanner.Start(sink.Context(), hl, sink); err != nil {
		m.coord.CancelSearch()
		return func() tea.Msg { return searchFailedMsg{err: err} }
	}
	return nil
}

func (m *Model) optionsChanged() tea.Cmd {
	if m.input.Value() == "" || m.coord.State() == domain.StateIdle {
		return nil
	}
	return m.startSearch()
}

func (m *Model) applyBatch(b coordinator.Batch) {
	if !m.coord.Apply(b) {
		return
	}
	if !m.coord.Results.TakeChanged() {
		return
	}
	m.navigator.SetTotal(m.coord.Results.Size())
	if m.navigator.GetSelectedIndex() < 0 && m.coord.Results.Size() > 0 {
		m.selectRow(m.navigator.SetSelectedIndex(0))
	}
}

func (m *Model) selectRow(index int) {
	m.preview = m.coord.Selection.Select(index)
}

func (m *Model) openSelected() tea.Cmd {
	if err := m.coord.Selection.OpenSelected(); err != nil {
		return m.setStatus(err.Error(), true)
	}
	cmd := m.editor.take()
	if m.quitting {
		m.scanner.Stop()
		return tea.Sequence(cmd, tea.Quit)
	}
	return cmd
}

func (m *Model) replayNext(entries []string, pos *int, what string) tea.Cmd {
	if len(entries) == 0 {
		return m.setStatus(fmt.Sprintf("No %s yet", what), false)
	}
	*pos = (*pos + 1) % len(entries)
	if err := m.coord.Replay(entries[*pos]); err != nil {
		return m.setStatus(err.Error(), true)
	}
	return nil
}

func (m *Model) copiedStatus(n int, what string, err error) tea.Cmd {
	if err != nil {
		return m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
	}
	if n == 0 {
		return m.setStatus(fmt.Sprintf("No %s to copy", what), false)
	}
	return m.setStatus(fmt.Sprintf("Copied %d %s", n, what), false)
}

func (m *Model) handleEvent(e domain.DomainEvent) {
	switch event := e.(type) {
	case domain.ErrorEvent:
		m.status = event.Message
		if event.Err != nil {
			m.status = fmt.Sprintf("%s: %v", event.Message, event.Err)
		}
		m.statusIsError = true
	case domain.HistoryChangedEvent:
		m.historyPos = -1
	case domain.FavoritesChangedEvent:
		m.favoritePos = -1
	}
}

// showInPager returns a command that shows content using the ov pager
func (m *Model) showInPager(content string) tea.Cmd {
	if m.program == nil {
		return m.setStatus("Pager unavailable", true)
	}
	program := m.program
	pager := m.pager
	return func() tea.Msg {
		// Send pause message to stop rendering
		program.Send(pauseRenderingMsg{})

		err := pager.Show(content)

		// Send resume message to restart rendering
		program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.status = text
	m.statusIsError = isError
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.coord.Close()
	m.scanner.Stop()
	return tea.Quit
}

// listHeight is the number of result rows that fit on screen
func (m *Model) listHeight() int {
	h := m.height - 4 - m.previewHeight() - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) previewHeight() int {
	return m.height / 3
}

// View renders the dialog
func (m *Model) View() string {
	if m.quitting || m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	from, to := m.navigator.Visible()
	rows := make([]views.Row, 0, to-from)
	for i := from; i < to; i++ {
		e, err := m.coord.Results.Get(i)
		if err != nil {
			break
		}
		rows = append(rows, views.Row{Name: e.Name(), Desc: e.Description()})
	}

	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Title:          m.coord.Title(),
		Input:          m.input.View(),
		CaseSensitive:  m.caseSensitive,
		Regex:          m.regex,
		WholeWord:      m.wholeWord,
		KeepOpen:       m.coord.KeepOpen(),
		Rows:           rows,
		ViewportOffset: from,
		SelectedIndex:  m.navigator.GetSelectedIndex(),
		TotalRows:      m.coord.Results.Size(),
		HasDescColumn:  m.coord.Results.HasDescColumn(),
		ResultsInfo:    m.coord.ResultsInfo(),
		Preview:        m.preview,
		PreviewHeight:  m.previewHeight(),
		StatusMessage:  m.status,
		StatusIsError:  m.statusIsError,
	})
}


package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"findpane/internal/ui/services/highlight"
	"findpane/internal/ui/services/preview"
)

// Row is one visible line of the results table
type Row struct {
	Name string
	Desc string
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Title          string
	Input          string // rendered search field
	CaseSensitive  bool
	Regex          bool
	WholeWord      bool
	KeepOpen       bool
	Rows           []Row // visible rows only
	ViewportOffset int
	SelectedIndex  int
	TotalRows      int
	HasDescColumn  bool
	ResultsInfo    string
	Preview        preview.Preview
	PreviewHeight  int
	StatusMessage  string
	StatusIsError  bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{
		styles: NewStyles(),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.styles.Title.Render(state.Title))
	content.WriteString("\n")
	content.WriteString(state.Input)
	content.WriteString("  ")
	content.WriteString(r.renderOptions(state))
	content.WriteString("\n\n")

	content.WriteString(r.renderTable(state))
	content.WriteString(r.renderPreview(state))

	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))

	return content.String()
}

func (r *Renderer) renderOptions(state ViewState) string {
	opt := func(label string, on bool) string {
		if on {
			return r.styles.Option.Render(label)
		}
		return r.styles.OptionOff.Render(label)
	}
	return strings.Join([]string{
		opt("Aa", state.CaseSensitive),
		opt(".*", state.Regex),
		opt("W", state.WholeWord),
		opt("keep open", state.KeepOpen),
	}, " ")
}

// NameWidth is the width of the name column; the description takes the rest
func NameWidth(width int, hasDesc bool) int {
	if !hasDesc {
		return width
	}
	return width / 2
}

func (r *Renderer) renderTable(state ViewState) string {
	var b strings.Builder
	width := state.Width
	if width <= 0 {
		width = 80
	}
	nameWidth := NameWidth(width-2, state.HasDescColumn)

	if state.ViewportOffset > 0 {
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("  ↑ %d more", state.ViewportOffset)))
		b.WriteString("\n")
	}

	for i, row := range state.Rows {
		line := Fit(row.Name, nameWidth)
		if state.HasDescColumn {
			line += " " + r.styles.Desc.Render(Fit(row.Desc, width-2-nameWidth-1))
		}
		if state.ViewportOffset+i == state.SelectedIndex {
			b.WriteString(r.styles.SelectionBg.Render("> " + line))
		} else {
			b.WriteString("  " + r.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}

	if below := state.TotalRows - state.ViewportOffset - len(state.Rows); below > 0 {
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("  ↓ %d more", below)))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderPreview(state ViewState) string {
	if state.PreviewHeight <= 0 {
		return ""
	}
	p := state.Preview
	if p.Empty() {
		return r.styles.PreviewBox.Render(r.styles.Dim.Render("no preview")) + "\n"
	}

	marked := highlight.Mark(p.Text, p.Matches, func(s string) string {
		return r.styles.Match.Render(s)
	})
	lines := strings.Split(marked, "\n")
	if len(lines) > state.PreviewHeight {
		lines = lines[:state.PreviewHeight]
	}

	header := string(p.Syntax)
	if p.Plain {
		header += " (plain)"
	}
	if n := len(p.Matches); n > 0 {
		header += fmt.Sprintf("  %d matches", n)
	}

	body := lipgloss.NewStyle().MaxWidth(state.Width).Render(strings.Join(lines, "\n"))
	return r.styles.PreviewBox.Render(r.styles.Header.Render(header)+"\n"+body) + "\n"
}

func (r *Renderer) renderStatus(state ViewState) string {
	info := r.styles.Status.Render(state.ResultsInfo)
	if state.StatusMessage == "" {
		return info
	}
	style := r.styles.StatusSuccess
	if state.StatusIsError {
		style = r.styles.StatusError
	}
	return info + "  " + style.Render(state.StatusMessage)
}

// Fit truncates or pads s to exactly width terminal cells
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

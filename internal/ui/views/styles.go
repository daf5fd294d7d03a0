package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Option        lipgloss.Style
	OptionOff     lipgloss.Style
	Header        lipgloss.Style
	Row           lipgloss.Style
	Desc          lipgloss.Style
	SelectionBg   lipgloss.Style
	Match         lipgloss.Style
	PreviewBox    lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Scroll        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Prompt: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1),
		Option:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		OptionOff: lipgloss.NewStyle().Faint(true),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Row:       lipgloss.NewStyle(),
		Desc:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		SelectionBg: lipgloss.NewStyle().
			Background(lipgloss.Color("238")).
			Bold(true),
		Match: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("226")),
		PreviewBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("241")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

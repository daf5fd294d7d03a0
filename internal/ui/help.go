package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type keyHelp struct {
	key  string
	desc string
}

var helpSections = []struct {
	title string
	keys  []keyHelp
}{
	{"Search", []keyHelp{
		{"Enter", "Search for the text in the field"},
		{"Alt+C", "Toggle case sensitive"},
		{"Alt+X", "Toggle regular expression"},
		{"Alt+W", "Toggle whole word"},
		{"Ctrl+S", "Sort results"},
		{"Esc", "Stop the search, or close when idle"},
	}},
	{"Results", []keyHelp{
		{"↑/↓", "Select previous/next result"},
		{"PgUp/PgDn", "Page up/down"},
		{"Ctrl+O", "Open the selected result"},
		{"Ctrl+Y", "Copy the selected result"},
		{"Ctrl+G", "Copy the references of all results"},
		{"Ctrl+L", "Copy the code of all results"},
		{"F3", "Show the preview in the pager"},
	}},
	{"History & Favorites", []keyHelp{
		{"Ctrl+R", "Replay the next history entry"},
		{"Alt+V", "Replay the next favorite"},
		{"Alt+S", "Add the current search to favorites"},
	}},
	{"Other", []keyHelp{
		{"Ctrl+T", "Keep the dialog open after opening a result"},
		{"F1", "Show this help"},
		{"Ctrl+C", "Quit"},
	}},
}

// renderHelpContent renders the help information for the pager
func renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("findpane Help"))
	help.WriteString("\n")

	for _, section := range helpSections {
		help.WriteString("\n")
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, k := range section.keys {
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(k.key), descStyle.Render(k.desc)))
		}
	}
	return help.String()
}

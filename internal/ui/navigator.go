package ui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"findpane/internal/domain"
)

// editorNavigator opens jump targets in an external editor. Jump only
// prepares the command; Update runs it with tea.ExecProcess.
type editorNavigator struct {
	editor  string
	pending tea.Cmd
}

func newEditorNavigator(editor string) *editorNavigator {
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	return &editorNavigator{editor: editor}
}

func (n *editorNavigator) Jump(target domain.JumpTarget) error {
	if target.Position == nil || target.Position.Path == "" {
		return errors.New("entry has no source location")
	}

	args := strings.Fields(n.editor)
	if len(args) == 0 {
		return fmt.Errorf("invalid editor command %q", n.editor)
	}
	if target.Position.Line > 0 {
		args = append(args, fmt.Sprintf("+%d", target.Position.Line))
	}
	args = append(args, target.Position.Path)

	n.pending = tea.ExecProcess(exec.Command(args[0], args[1:]...), func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
	return nil
}

// take returns the prepared editor command, if any, and forgets it
func (n *editorNavigator) take() tea.Cmd {
	cmd := n.pending
	n.pending = nil
	return cmd
}

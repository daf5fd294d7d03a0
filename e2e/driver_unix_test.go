//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const maxOutput = 1 << 20 // keep the last 1 MiB of terminal output
var binPath = "findpane_e2e"

const (
	KeyEnter    = "\r"
	KeyEsc      = "\x1b"
	KeyCtrlC    = "\x03"
	KeyCtrlT    = "\x14"
	KeyDown     = "\x1b[B"
	KeyF1       = "\x1bOP"
	KeyPagerOut = "q"
)

// escapeRe matches the terminal control sequences bubbletea and ov emit
var escapeRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b[()][A-Za-z]|\x1b[=>]|\r`)

// TUITestFramework drives the dialog in a PTY
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu  sync.Mutex
	out []byte
}

// NewTUITest creates a new TUI test framework instance
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{
		t:         t,
		workspace: t.TempDir(),
	}
}

// Path returns a path inside the test workspace
func (tf *TUITestFramework) Path(parts ...string) string {
	return filepath.Join(append([]string{tf.workspace}, parts...)...)
}

// isolationArgs keeps config, prefs and logs inside the workspace
func (tf *TUITestFramework) isolationArgs() []string {
	return []string{
		"--config", tf.Path("config.toml"),
		"--prefs-backend", "file",
		"--prefs-path", tf.Path("prefs.toml"),
	}
}

func (tf *TUITestFramework) env() []string {
	return append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace, // isolate $HOME
		"XDG_CONFIG_HOME="+tf.Path(".config"),
		"EDITOR=true",
	)
}

// Run runs a non-interactive command and returns its combined output
func (tf *TUITestFramework) Run(args ...string) (string, error) {
	tf.t.Helper()
	cmd := exec.Command(binPath, append(args, tf.isolationArgs()...)...)
	cmd.Env = tf.env()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// StartApp launches the dialog with given arguments in a PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, append(args, tf.isolationArgs()...)...)
	tf.cmd.Env = tf.env()

	ptyFile, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("failed to open pty: %w", err)
	}

	tf.pty = ptyFile
	tf.tty = tty
	tf.cmd.Stdout = tty
	tf.cmd.Stdin = tty
	tf.cmd.Stderr = tty

	if err := pty.Setsize(ptyFile, &pty.Winsize{Rows: 40, Cols: 120}); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to size pty: %w", err)
	}

	if err := tf.cmd.Start(); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	tf.startReader()
	return nil
}

// startReader copies everything the app writes into the output buffer
func (tf *TUITestFramework) startReader() {
	go func() {
		chunk := make([]byte, 4096)
		for {
			n, err := tf.pty.Read(chunk)
			tf.record(chunk[:n])
			if err != nil {
				return
			}
		}
	}()
}

func (tf *TUITestFramework) record(p []byte) {
	if len(p) == 0 {
		return
	}
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.out = append(tf.out, p...)
	if over := len(tf.out) - maxOutput; over > 0 {
		tf.out = append([]byte(nil), tf.out[over:]...)
	}
}

// SendKeys sends keystrokes to the application
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// Search types text into the search field and submits it
func (tf *TUITestFramework) Search(text string) error {
	tf.t.Helper()
	if err := tf.SendKeys(text); err != nil {
		return err
	}
	return tf.SendKeys(KeyEnter)
}

// Ready waits for the dialog to render its title
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.seePlain("Find", 5*time.Second)
}

// SeePlain waits for text to appear in the output with control sequences removed
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.seePlain(text, 3*time.Second)
}

func (tf *TUITestFramework) seePlain(text string, timeout time.Duration) bool {
	return tf.WaitFor(func(string) bool {
		return strings.Contains(tf.SnapshotPlain(), text)
	}, timeout)
}

// WaitFor waits for a predicate to be true in the output
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// WaitExit waits for the process to exit
func (tf *TUITestFramework) WaitExit(timeout time.Duration) error {
	tf.t.Helper()
	done := make(chan error, 1)
	go func() { done <- tf.cmd.Wait() }()
	select {
	case err := <-done:
		tf.cmd = nil
		return err
	case <-time.After(timeout):
		return fmt.Errorf("process did not exit within %v", timeout)
	}
}

// Snapshot returns the raw output captured so far
func (tf *TUITestFramework) Snapshot() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return string(tf.out)
}

// SnapshotPlain returns the captured output without control sequences
func (tf *TUITestFramework) SnapshotPlain() string {
	return escapeRe.ReplaceAllString(tf.Snapshot(), "")
}

// DumpTailOnFail logs the last n bytes of normalized output
func (tf *TUITestFramework) DumpTailOnFail(n int) {
	tf.t.Helper()
	if !tf.t.Failed() {
		return
	}
	s := tf.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	tf.t.Logf("--- tail ---\n%s", s)
}

// Cleanup hangs up the terminal and kills the app if it is still running
func (tf *TUITestFramework) Cleanup() {
	tf.DumpTailOnFail(4096)

	for _, f := range []*os.File{tf.pty, tf.tty} {
		if f != nil {
			_ = f.Close()
		}
	}
	tf.pty, tf.tty = nil, nil

	if tf.cmd == nil || tf.cmd.Process == nil {
		return
	}
	_ = tf.cmd.Process.Kill()
	_, _ = tf.cmd.Process.Wait()
	tf.cmd = nil
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"findpane/internal/config"
	"findpane/internal/eventbus"
	"findpane/internal/ui/coordinator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir   string
	tree  string
	flags []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	tree := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "com", "example"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "com", "example", "Main.java"),
		[]byte("class Main {\n    void onCreate() {}\n    void onDestroy() {}\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "notes.bin"),
		[]byte("onCreate\n"), 0o644))

	return &testEnv{
		dir:  dir,
		tree: tree,
		flags: []string{
			"--config", filepath.Join(dir, "config.toml"),
			"--prefs-backend", "file",
			"--prefs-path", filepath.Join(dir, "prefs.toml"),
		},
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, e.flags...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchPrintsMatches(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "search", "onCreate", env.tree)
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join("com", "example", "Main.java")+":2")
	assert.Contains(t, out, "void onCreate() {}")
	assert.NotContains(t, out, "onDestroy")
	assert.NotContains(t, out, "notes.bin")
	assert.Contains(t, out, "1 results")
}

func TestSearchJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "search", "--json", "-r", `on[A-Z]\w+`, env.tree)
	require.NoError(t, err)

	var results []jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, filepath.Join(env.tree, "com", "example", "Main.java"), r.Path)
		assert.Equal(t, 10, r.Column)
	}
}

func TestSearchWholeWordCaseSensitive(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "search", "-c", "-w", "oncreate", env.tree)
	require.NoError(t, err)
	assert.Contains(t, out, "0 results")
}

func TestSearchInvalidRegex(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "search", "-r", "on(", env.tree)
	assert.Error(t, err)
}

func TestSearchRecordsHistory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "search", "onCreate", env.tree)
	require.NoError(t, err)
	_, err = env.run(t, "search", "onDestroy", env.tree)
	require.NoError(t, err)

	out, err := env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "History (2)")
	assert.Less(t, bytes.Index([]byte(out), []byte("onDestroy")), bytes.Index([]byte(out), []byte("onCreate")),
		"newest term first")

	_, err = env.run(t, "history", "clear")
	require.NoError(t, err)

	out, err = env.run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "History (0)")
	assert.Contains(t, out, "(empty)")
}

func TestFavorites(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "favorites", "add", "Intent")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Intent"`)

	out, err = env.run(t, "fav", "add", "Intent")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing added")

	out, err = env.run(t, "favorites", "add", "a||b")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning")

	out, err = env.run(t, "favorites")
	require.NoError(t, err)
	// the delimited term comes back split in two
	assert.Contains(t, out, "Favorites (3)")
	assert.Contains(t, out, "Intent")

	_, err = env.run(t, "favorites", "clear")
	require.NoError(t, err)
	out, err = env.run(t, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "Favorites (0)")
}

func TestListCommandErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "favorites", "add")
	assert.Error(t, err)

	_, err = env.run(t, "history", "purge")
	assert.Error(t, err)
}

func TestUnknownPrefsBackend(t *testing.T) {
	env := newTestEnv(t)
	env.flags = []string{
		"--config", filepath.Join(env.dir, "config.toml"),
		"--prefs-backend", "registry",
	}

	_, err := env.run(t, "history")
	assert.ErrorContains(t, err, "opening prefs")
}

func TestKeepOpenSavedAfterEachToggle(t *testing.T) {
	env := newTestEnv(t)
	a := &app{
		cfgFile:      filepath.Join(env.dir, "config.toml"),
		prefsBackend: "memory",
	}
	require.NoError(t, a.initConfig())

	bus := eventbus.New()
	defer bus.Close()
	coord := coordinator.NewCoordinator(bus, coordinator.Options{KeepOpen: a.cfg.UI.KeepDialogOpen})
	coord.SetKeepOpenSaveFunction(a.saveKeepOpen)

	for i := 0; i < 7; i++ {
		coord.ToggleKeepOpen()

		cfg, err := config.NewConfigServiceAt(a.cfgFile).LoadFromPath(a.cfgFile)
		require.NoError(t, err)
		assert.Equal(t, coord.KeepOpen(), cfg.UI.KeepDialogOpen, "toggle %d", i+1)
	}
	assert.True(t, coord.KeepOpen())
}

package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgsort/internal/catalog"
	"imgsort/internal/ledger"
	"imgsort/internal/organize"
	"imgsort/internal/session"
	"imgsort/internal/watch"
	"imgsort/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, names ...string) (*Model, string) {
	t.Helper()
	dir := testutils.ImageDir(t, names...)
	c, err := catalog.New([]string{".png", ".jpg"})
	require.NoError(t, err)
	s, err := session.New(session.Options{
		Directory:  dir,
		Categories: []string{"keep", "delete", "fix"},
		Catalog:    c,
		Store:      ledger.NewMemoryStore(),
		Engine:     organize.New(c),
		Clamp:      true,
	})
	require.NoError(t, err)
	return New(Options{Session: s, Interval: time.Millisecond, ClampHeight: 896}), dir
}

func press(m *Model, keys ...string) *Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(*Model)
	}
	return m
}

func command(m *Model, line string) *Model {
	m = press(m, ":")
	for _, r := range line {
		m = press(m, string(r))
	}
	return press(m, "enter")
}

func TestModelInitialization(t *testing.T) {
	m, dir := newModel(t, "a.png", "b.png")
	alsrt.Equal(t, Normal, m.Mode())
	alsrt.Equal(t, dir, m.Session().Directory())

	out := testutils.StripANSI(m.View())
	alsrt.Contains(t, out, "[1/2] a.png")
	alsrt.Contains(t, out, "1 keep")
	alsrt.Contains(t, out, "3 fix")
	alsrt.Contains(t, out, "annotated: 0  remaining: 2")
}

func TestAnnotateKeys(t *testing.T) {
	m, _ := newModel(t, "a.png", "b.png", "c.png")

	m = press(m, "2")
	label, ok := m.Session().Ledger().State().Label("a.png")
	alsrt.True(t, ok)
	alsrt.Equal(t, "delete", label)
	alsrt.Equal(t, 1, m.Session().Cursor())

	m = press(m, "9")
	alsrt.Equal(t, 1, m.Session().Cursor(), "no ninth category")
	alsrt.Contains(t, m.Status(), "no such category")

	m = press(m, "left")
	alsrt.Equal(t, 0, m.Session().Cursor())
	out := testutils.StripANSI(m.View())
	alsrt.Contains(t, out, "a.png delete")

	m = press(m, "l", "right", "h")
	alsrt.Equal(t, 1, m.Session().Cursor())
}

func TestDoneAndMove(t *testing.T) {
	m, dir := newModel(t, "a.png", "b.png")
	m = press(m, "1", "2")
	alsrt.Contains(t, testutils.StripANSI(m.View()), "All images annotated")

	m = press(m, "m")
	alsrt.Contains(t, m.Status(), "moving 1 images to delete...")
	alsrt.Contains(t, m.Status(), "moving 1 images to keep...")
	testutils.AssertExists(t, filepath.Join(dir, "keep", "a.png"))
	testutils.AssertExists(t, filepath.Join(dir, "delete", "b.png"))
	alsrt.Contains(t, testutils.StripANSI(m.View()), "No image files in folder.")

	m = press(m, "m")
	alsrt.Equal(t, "nothing to move", m.Status())
}

func TestToggles(t *testing.T) {
	m, _ := newModel(t, "a.png")
	m = press(m, "x")
	alsrt.Contains(t, testutils.StripANSI(m.View()), "(image hidden)")
	m = press(m, "x")
	alsrt.Contains(t, testutils.StripANSI(m.View()), "height ≤ 896px")
	m = press(m, "c")
	alsrt.False(t, m.Session().View().Clamp)

	m = press(m, "1", "R")
	alsrt.Equal(t, "annotations reset", m.Status())
	alsrt.Equal(t, 0, m.Session().Ledger().Len())
	alsrt.Equal(t, 0, m.Session().Cursor())
}

func TestCommandMode(t *testing.T) {
	m, dir := newModel(t, "cat one.png", "dog one.png", "cat_two.png")

	m = press(m, ":")
	alsrt.Equal(t, Command, m.Mode())
	m = press(m, "esc")
	alsrt.Equal(t, Normal, m.Mode())

	t.Run("keywords", func(t *testing.T) {
		m = command(m, "kw cat")
		alsrt.Equal(t, []string{"cat one.png"}, m.Session().Listing())

		m = command(m, "sep _")
		alsrt.Equal(t, []string{"cat_two.png"}, m.Session().Listing())

		m = command(m, "sep")
		m = command(m, "kw cat, one")
		alsrt.Equal(t, []string{"cat one.png", "dog one.png"}, m.Session().Listing())
		m = command(m, "and")
		alsrt.Equal(t, []string{"cat one.png"}, m.Session().Listing())
		alsrt.Contains(t, testutils.StripANSI(m.View()), "keywords: cat, one (and")

		m = command(m, "nokw")
		alsrt.Equal(t, 3, len(m.Session().Listing()))
	})

	t.Run("categories", func(t *testing.T) {
		m = command(m, "cats a, b")
		alsrt.Equal(t, []string{"a", "b"}, m.Session().Categories())
		m = command(m, "cats  ")
		alsrt.Contains(t, m.Status(), "at least one category")
	})

	t.Run("label", func(t *testing.T) {
		m = command(m, "label maybe")
		label, _ := m.Session().Ledger().State().Label("cat one.png")
		alsrt.Equal(t, "maybe", label)
	})

	t.Run("directory", func(t *testing.T) {
		other := testutils.ImageDir(t, "z.png")
		m = command(m, "cd "+other)
		alsrt.Equal(t, other, m.Session().Directory())
		alsrt.Equal(t, []string{"z.png"}, m.Session().Listing())

		m = command(m, "cd "+filepath.Join(dir, "missing"))
		alsrt.Contains(t, testutils.StripANSI(m.View()), "is not a valid directory")
	})

	t.Run("dry run and unknown", func(t *testing.T) {
		m = command(m, "dry")
		alsrt.True(t, m.Session().Engine().IsDryRun())
		m = command(m, "bogus")
		alsrt.Equal(t, "unknown command: bogus", m.Status())
	})

	t.Run("quit", func(t *testing.T) {
		m = press(m, ":", "q")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		alsrt.Equal(t, tea.QuitMsg{}, cmd())
	})
}

func TestKeywordMove(t *testing.T) {
	m, dir := newModel(t, "cat one.png", "dog one.png")
	m = press(m, "K")
	alsrt.Contains(t, m.Status(), "no keyword filter")

	m = command(m, "kw cat")
	m = press(m, "K")
	testutils.AssertExists(t, filepath.Join(dir, "cat", "cat one.png"))
	alsrt.Equal(t, []string{"dog one.png"}, m.Session().Listing())
}

func TestSlideshow(t *testing.T) {
	m, _ := newModel(t, "a.png", "b.png")
	m = press(m, "s")
	alsrt.True(t, m.Slideshow())

	next, cmd := m.Update(tickMsg{gen: m.slideGen, at: time.Now()})
	m = next.(*Model)
	alsrt.True(t, cmd != nil)
	alsrt.Equal(t, 1, m.Session().Cursor())

	next, cmd = m.Update(tickMsg{gen: m.slideGen, at: time.Now()})
	m = next.(*Model)
	alsrt.True(t, cmd == nil)
	alsrt.False(t, m.Slideshow())
	alsrt.Equal(t, "slideshow finished", m.Status())

	m.continuous = true
	m = press(m, "s")
	m.Update(tickMsg{gen: m.slideGen, at: time.Now()})
	alsrt.Equal(t, 0, m.Session().Cursor(), "continuous wraps")
	m = press(m, "s")
	_, cmd = m.Update(tickMsg{gen: m.slideGen, at: time.Now()})
	alsrt.True(t, cmd == nil)
}

func TestSlideshowRestartDropsStaleTicks(t *testing.T) {
	m, _ := newModel(t, "a.png", "b.png", "c.png")
	m = press(m, "s")
	stale := tickMsg{gen: m.slideGen, at: time.Now()}
	m = press(m, "s", "s")
	alsrt.True(t, m.Slideshow())

	_, cmd := m.Update(stale)
	alsrt.True(t, cmd == nil)
	alsrt.Equal(t, 0, m.Session().Cursor(), "tick from the stopped run is ignored")

	_, cmd = m.Update(tickMsg{gen: m.slideGen, at: time.Now()})
	alsrt.True(t, cmd != nil)
	alsrt.Equal(t, 1, m.Session().Cursor())
}

func TestWatcherRefresh(t *testing.T) {
	m, dir := newModel(t, "b.png")
	w, err := watch.New(watch.Extensions([]string{".png"}))
	require.NoError(t, err)
	m.watcher = w
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0644))

	next, cmd := m.Update(fileChangedMsg{Path: filepath.Join(dir, "a.png"), Op: fsnotify.Create})
	m = next.(*Model)
	alsrt.True(t, cmd != nil)
	alsrt.Equal(t, []string{"a.png", "b.png"}, m.Session().Listing())
	cur, _ := m.Session().Current()
	alsrt.Equal(t, "b.png", cur, "cursor stays on the same file")

	require.NoError(t, w.Start())
	w.Stop()
	alsrt.Equal(t, watchClosedMsg{}, m.waitForChange()())
}

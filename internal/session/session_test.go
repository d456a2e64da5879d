package session_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"imgsort/internal/catalog"
	"imgsort/internal/config"
	"imgsort/internal/errors"
	"imgsort/internal/keyword"
	"imgsort/internal/ledger"
	"imgsort/internal/organize"
	"imgsort/internal/session"
	"imgsort/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imageExts = []string{".png", ".jpg"}

type fixture struct {
	dir    string
	store  *ledger.FileStore
	engine *organize.Engine
	s      *session.Session
}

func newFixture(t *testing.T, resume bool, names ...string) *fixture {
	t.Helper()
	dir := testutils.ImageDir(t, names...)
	store := ledger.NewFileStore(filepath.Join(t.TempDir(), "annotations.json"))
	c, err := catalog.New(imageExts)
	require.NoError(t, err)
	engine := organize.New(c)

	s, err := session.New(session.Options{
		Directory:  dir,
		Categories: []string{"keep", "delete", "fix", "other"},
		Catalog:    c,
		Store:      store,
		Engine:     engine,
		Clamp:      true,
		Resume:     resume,
	})
	require.NoError(t, err)
	return &fixture{dir: dir, store: store, engine: engine, s: s}
}

func TestCursor(t *testing.T) {
	var c session.Cursor
	c.Advance(-1)
	assert.Equal(t, 0, c.Index(), "floor clamp")

	c.Advance(3)
	assert.Equal(t, 3, c.Index())
	c.Advance(10)
	assert.Equal(t, 13, c.Index(), "no upper clamp")

	_, ok := c.Current([]string{"a.png"})
	assert.False(t, ok)

	c.Seek(-4, 2)
	assert.Equal(t, 0, c.Index())
	c.Seek(9, 2)
	assert.Equal(t, 2, c.Index())

	c.Seek(1, 2)
	name, ok := c.Current([]string{"a.png", "b.png"})
	assert.True(t, ok)
	assert.Equal(t, "b.png", name)

	c.Reset()
	assert.Equal(t, 0, c.Index())
}

func TestNewSession(t *testing.T) {
	t.Run("sorted filtered listing", func(t *testing.T) {
		f := newFixture(t, false, "b.jpg", "a.png", "c.txt")

		v := f.s.View()
		assert.True(t, v.ValidDirectory)
		assert.Equal(t, []string{"a.png", "b.jpg"}, v.Listing)
		assert.Equal(t, "a.png", v.Current)
		assert.Equal(t, filepath.Join(f.dir, "a.png"), v.CurrentPath)
		assert.Equal(t, 2, v.Remaining)
		assert.True(t, v.Clamp)
		assert.False(t, v.Done)
	})

	t.Run("invalid directory", func(t *testing.T) {
		c, err := catalog.New(imageExts)
		require.NoError(t, err)

		s, err := session.New(session.Options{
			Directory: filepath.Join(t.TempDir(), "missing"),
			Catalog:   c,
			Store:     ledger.NewMemoryStore(),
			Engine:    organize.New(c),
		})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidDirectory(err))
		require.NotNil(t, s)

		v := s.View()
		assert.False(t, v.ValidDirectory)
		assert.Empty(t, v.Listing)
		assert.False(t, v.Done)

		_, err = s.MoveFiles()
		assert.True(t, errors.IsInvalidDirectory(err))
	})

	t.Run("from config", func(t *testing.T) {
		dir := testutils.ImageDir(t, "a.png", "a_thumb.png", "b.gif")
		cfg := config.NewTestConfig(dir)
		cfg.FilterFiles = "png, gif"
		cfg.IgnorePatterns = []string{"*_thumb.*"}

		s, err := session.FromConfig(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.png", "b.gif"}, s.Listing())
		assert.Equal(t, []string{"keep", "delete", "fix", "other"}, s.Categories())
	})
}

func TestNavigation(t *testing.T) {
	f := newFixture(t, false, "a.png", "b.png")

	f.s.Back()
	assert.Equal(t, 0, f.s.Cursor(), "back at the start stays at 0")

	f.s.Skip()
	f.s.Skip()
	f.s.Skip()
	v := f.s.View()
	assert.Equal(t, 3, v.Index)
	assert.Equal(t, 0, v.Remaining)
	assert.True(t, v.Done)

	f.s.Back()
	assert.Equal(t, 2, f.s.Cursor())

	f.s.Seek(1)
	current, ok := f.s.Current()
	require.True(t, ok)
	assert.Equal(t, "b.png", current)
}

func TestAnnotate(t *testing.T) {
	f := newFixture(t, false, "a.png", "b.png")

	require.NoError(t, f.s.Annotate("keep"))
	require.NoError(t, f.s.AnnotateIndex(1))
	assert.Equal(t, 2, f.s.Cursor())

	doc, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, f.dir, doc.Directory)
	assert.Equal(t, map[string]string{"a.png": "keep", "b.png": "delete"}, doc.Files)

	err = f.s.Annotate("keep")
	assert.ErrorIs(t, err, errors.ErrNothingCurrent)
	assert.True(t, errors.IsInvalidInputError(f.s.AnnotateIndex(9)))

	f.s.Back()
	assert.True(t, errors.IsInvalidInputError(f.s.Annotate("")))
	v := f.s.View()
	assert.Equal(t, "delete", v.CurrentLabel)
	assert.Equal(t, 2, v.Annotated)
}

func TestMoveFiles(t *testing.T) {
	t.Run("annotate then move round trip", func(t *testing.T) {
		f := newFixture(t, false, "a.png", "b.png", "c.png", "d.png")
		for range 3 {
			require.NoError(t, f.s.Annotate("keep"))
		}

		report, err := f.s.MoveFiles()
		require.NoError(t, err)
		assert.Equal(t, 3, report.Count("keep"))

		assert.Equal(t, 0, f.s.Ledger().Len())
		assert.Equal(t, []string{"d.png"}, f.s.Listing())
		assert.Equal(t, 0, f.s.Cursor())
		assert.Equal(t, []string{"a.png", "b.png", "c.png"}, catalog.Scan(filepath.Join(f.dir, "keep"), imageExts))
		assert.Equal(t, []string{"d.png"}, catalog.Scan(f.dir, imageExts))
		assert.False(t, f.store.Exists(), "empty ledger is deleted")
	})

	t.Run("tolerant of external deletion", func(t *testing.T) {
		f := newFixture(t, false, "a.png", "b.png")
		require.NoError(t, f.s.Annotate("keep"))
		require.NoError(t, f.s.Annotate("fix"))
		require.NoError(t, os.Remove(filepath.Join(f.dir, "b.png")))

		report, err := f.s.MoveFiles()
		require.NoError(t, err)
		assert.Equal(t, 1, report.Total())
		assert.Equal(t, 0, report.Count("fix"))
	})

	t.Run("partial failure keeps state consistent", func(t *testing.T) {
		f := newFixture(t, false, "a.png", "b.png")
		require.NoError(t, os.Mkdir(filepath.Join(f.dir, "keep"), 0755))
		testutils.CreateImages(t, filepath.Join(f.dir, "keep"), "b.png")
		require.NoError(t, f.s.Annotate("keep"))
		require.NoError(t, f.s.Annotate("keep"))

		report, err := f.s.MoveFiles()
		require.Error(t, err)
		assert.True(t, errors.IsMoveFailed(err))
		assert.Equal(t, []string{"a.png"}, report.Moved())

		assert.Equal(t, 1, f.s.Ledger().Len())
		assert.Equal(t, []string{"b.png"}, f.s.Listing())
		doc, err := f.store.Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"b.png": "keep"}, doc.Files)
	})

	t.Run("dry run keeps everything", func(t *testing.T) {
		f := newFixture(t, false, "a.png")
		f.engine.SetDryRun(true)
		require.NoError(t, f.s.Annotate("keep"))

		report, err := f.s.MoveFiles()
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.True(t, f.s.View().DryRun)
		assert.Equal(t, 1, f.s.Ledger().Len())
		assert.Equal(t, []string{"a.png"}, f.s.Listing())
	})
}

func TestKeywords(t *testing.T) {
	names := []string{"big cat.png", "big dog.png", "small cat.png", "bird.png"}

	t.Run("filter narrows listing and keeps annotations", func(t *testing.T) {
		f := newFixture(t, false, names...)
		require.NoError(t, f.s.Annotate("keep"))

		f.s.SetKeywords(keyword.NewSpec([]string{"cat"}, " ", keyword.Or))
		v := f.s.View()
		assert.Equal(t, []string{"big cat.png", "small cat.png"}, v.Listing)
		assert.Equal(t, 0, v.Index)
		assert.Equal(t, 1, v.Annotated)
		assert.Equal(t, []string{"cat"}, v.Keywords)
		assert.Equal(t, "or", v.KeywordMode)

		f.s.SetKeywords(keyword.NewSpec([]string{"cat", "big"}, " ", keyword.And))
		assert.Equal(t, []string{"big cat.png"}, f.s.Listing())

		f.s.ClearKeywords()
		assert.Len(t, f.s.Listing(), 4)
	})

	t.Run("keyword move bypasses the ledger", func(t *testing.T) {
		f := newFixture(t, false, names...)
		require.NoError(t, f.s.Annotate("keep")) // big cat.png
		before, err := os.ReadFile(f.store.Path())
		require.NoError(t, err)

		f.s.SetKeywords(keyword.NewSpec([]string{"cat", "big"}, " ", keyword.Or))
		report, err := f.s.MoveFilesByKeyword()
		require.NoError(t, err)
		assert.Equal(t, 2, report.Count("cat"))
		assert.Equal(t, 1, report.Count("big"))

		assert.False(t, f.s.Keywords().Active())
		assert.Equal(t, []string{"bird.png"}, f.s.Listing())
		assert.Equal(t, 0, f.s.Ledger().Len(), "moved files leave the in-memory ledger")

		after, err := os.ReadFile(f.store.Path())
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after))
	})

	t.Run("keyword move needs a filter", func(t *testing.T) {
		f := newFixture(t, false, names...)
		_, err := f.s.MoveFilesByKeyword()
		assert.True(t, errors.IsInvalidInputError(err))
	})
}

func TestChangeDirectory(t *testing.T) {
	f := newFixture(t, false, "a.png", "b.png")
	require.NoError(t, f.s.Annotate("keep"))

	other := testutils.ImageDir(t, "x.png")
	require.NoError(t, f.s.ChangeDirectory(other))
	v := f.s.View()
	assert.Equal(t, other, v.Directory)
	assert.Equal(t, []string{"x.png"}, v.Listing)
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, 0, v.Annotated, "directory change clears annotations")

	err := f.s.ChangeDirectory(filepath.Join(other, "x.png"))
	assert.True(t, errors.IsInvalidDirectory(err))
	assert.Empty(t, f.s.Listing())
}

func TestChangeDirectoryStartsFresh(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		dir := testutils.ImageDir(t, "a.png", "b.png")
		cfg := config.NewTestConfig(t.TempDir())
		cfg.DefaultDirectory = dir
		require.False(t, cfg.Resume)

		s, err := session.FromConfig(cfg, nil)
		require.NoError(t, err)
		require.NoError(t, s.Annotate("keep"))

		require.NoError(t, s.ChangeDirectory(testutils.ImageDir(t, "x.png")))
		require.NoError(t, s.ChangeDirectory(dir))
		assert.Equal(t, 0, s.Cursor())
		assert.Equal(t, 0, s.Ledger().Len())
	})

	t.Run("resume only applies at startup", func(t *testing.T) {
		f := newFixture(t, true, "a.png", "b.png")
		require.NoError(t, f.s.Annotate("keep"))

		require.NoError(t, f.s.ChangeDirectory(testutils.ImageDir(t, "x.png")))
		require.NoError(t, f.s.ChangeDirectory(f.dir))
		assert.Equal(t, 0, f.s.Cursor())
		assert.Equal(t, 0, f.s.Ledger().Len())
		assert.True(t, f.store.Exists(), "stored ledger is left on disk")
	})
}

func TestChangeCategories(t *testing.T) {
	f := newFixture(t, false, "a.png", "b.png")
	require.NoError(t, f.s.Annotate("keep"))

	require.NoError(t, f.s.ChangeCategories("good, bad, good"))
	assert.Equal(t, []string{"good", "bad"}, f.s.Categories())
	assert.Equal(t, 0, f.s.Cursor())
	assert.Equal(t, 1, f.s.Ledger().Len(), "annotations survive category edits")

	assert.True(t, errors.IsInvalidInputError(f.s.ChangeCategories(" , ")))
	assert.Equal(t, []string{"good", "bad"}, f.s.Categories())
}

func TestResetAnnotations(t *testing.T) {
	f := newFixture(t, false, "a.png", "b.png")
	require.NoError(t, f.s.Annotate("keep"))

	require.NoError(t, f.s.ResetAnnotations())
	assert.Equal(t, 0, f.s.Cursor())
	assert.Equal(t, 0, f.s.Ledger().Len())

	data, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Empty(t, doc)
}

func TestResume(t *testing.T) {
	dir := testutils.ImageDir(t, "a.png", "b.png", "c.png")
	store := ledger.NewMemoryStore()
	require.NoError(t, store.Save(ledger.NewDocument(dir, map[string]string{"a.png": "keep", "b.png": "fix"})))
	c, err := catalog.New(imageExts)
	require.NoError(t, err)

	s, err := session.New(session.Options{
		Directory: dir, Categories: []string{"keep"}, Catalog: c,
		Store: store, Engine: organize.New(c), Resume: true,
	})
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, 2, v.Annotated)
	assert.Equal(t, "c.png", v.Current, "resumes at the first unannotated file")
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, false, "a.png", "b.png", "c.png")
	f.s.Seek(1)

	testutils.CreateImages(t, f.dir, "0.png")
	f.s.Refresh()
	current, ok := f.s.Current()
	require.True(t, ok)
	assert.Equal(t, "b.png", current, "cursor follows the file")

	require.NoError(t, os.Remove(filepath.Join(f.dir, "b.png")))
	f.s.Refresh()
	current, _ = f.s.Current()
	assert.Equal(t, "c.png", current)
}

func TestTogglesAndPath(t *testing.T) {
	f := newFixture(t, false, "a.png")

	assert.True(t, f.s.ToggleHide())
	assert.True(t, f.s.View().Hidden)
	assert.False(t, f.s.ToggleHide())
	assert.False(t, f.s.ToggleClamp())

	path, ok := f.s.Path("a.png")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(f.dir, "a.png"), path)
	_, ok = f.s.Path("../secret.png")
	assert.False(t, ok)
}

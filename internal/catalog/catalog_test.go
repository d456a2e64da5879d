package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"imgsort/internal/catalog"
	"imgsort/internal/errors"
	"imgsort/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imageExts = []string{".png", ".jpg"}

func TestScan(t *testing.T) {
	t.Run("filters by extension and sorts", func(t *testing.T) {
		dir := t.TempDir()
		testutils.CreateTestFilesWithDefault(t, dir)

		assert.Equal(t, []string{"a.png", "b.jpg"}, catalog.Scan(dir, imageExts))
	})

	t.Run("rescan is idempotent", func(t *testing.T) {
		dir := testutils.ImageDir(t, "z.png", "m.jpg", "a.png")

		first := catalog.Scan(dir, imageExts)
		second := catalog.Scan(dir, imageExts)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"a.png", "m.jpg", "z.png"}, first)
	})

	t.Run("extension match is case sensitive", func(t *testing.T) {
		dir := testutils.ImageDir(t, "upper.PNG", "lower.png")

		assert.Equal(t, []string{"lower.png"}, catalog.Scan(dir, imageExts))
	})

	t.Run("directories are skipped", func(t *testing.T) {
		dir := testutils.ImageDir(t, "a.png")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "keep.png"), 0755))

		assert.Equal(t, []string{"a.png"}, catalog.Scan(dir, imageExts))
	})

	t.Run("missing directory yields empty listing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")

		assert.Empty(t, catalog.ListFiles(missing, imageExts))
		assert.Empty(t, catalog.Scan(missing, imageExts))
	})
}

func TestCatalog(t *testing.T) {
	dir := testutils.ImageDir(t, "a.png", "a_thumb.png", ".hidden.png", "b.jpg")

	t.Run("ignore patterns", func(t *testing.T) {
		c, err := catalog.New(imageExts, "*_thumb.png", ".*")
		require.NoError(t, err)

		assert.Equal(t, []string{"a.png", "b.jpg"}, c.Scan(dir))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := catalog.New(imageExts, "[unclosed")
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("list validates directory", func(t *testing.T) {
		c, err := catalog.New(imageExts)
		require.NoError(t, err)

		names, err := c.List(dir)
		require.NoError(t, err)
		assert.Len(t, names, 4)

		file := filepath.Join(dir, "a.png")
		names, err = c.List(file)
		assert.Nil(t, names)
		assert.True(t, errors.IsInvalidDirectory(err))
	})

	t.Run("extensions are copied", func(t *testing.T) {
		c, err := catalog.New(imageExts)
		require.NoError(t, err)
		exts := c.Extensions()
		exts[0] = ".gif"
		assert.Equal(t, imageExts, c.Extensions())
	})
}

func TestIsDir(t *testing.T) {
	dir := testutils.ImageDir(t, "a.png")
	assert.True(t, catalog.IsDir(dir))
	assert.False(t, catalog.IsDir(filepath.Join(dir, "a.png")))
	assert.False(t, catalog.IsDir(filepath.Join(dir, "missing")))
}

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"png, jpg, jpeg", []string{".png", ".jpg", ".jpeg"}},
		{".png,.jpg", []string{".png", ".jpg"}},
		{" , png,", []string{".png"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.ParseExtensions(tt.in))
		})
	}
}

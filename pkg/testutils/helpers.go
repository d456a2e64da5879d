package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateImages creates placeholder image files named names in dir
func CreateImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	files := make(map[string]string, len(names))
	for _, name := range names {
		files[name] = "image content " + name
	}
	CreateTestFilesWithContent(t, dir, files)
}

// CreateTestFilesWithDefault creates a small mixed directory: two images and
// one text file that extension filtering should drop.
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	files := map[string]string{
		"a.png": "image content a",
		"b.jpg": "image content b",
		"c.txt": "text content",
	}
	CreateTestFilesWithContent(t, dir, files)
}

// ImageDir returns a temp directory populated with the given image names.
func ImageDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	CreateImages(t, dir, names...)
	return dir
}

// AssertExists fails the test unless path exists.
func AssertExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.NoError(t, err, "expected %s to exist", path)
}

// AssertMissing fails the test if path exists.
func AssertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "expected %s to be gone", path)
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}

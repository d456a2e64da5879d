// Package catalog lists the image files of a directory.
package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"imgsort/internal/errors"
	"imgsort/internal/log"

	"github.com/gobwas/glob"
)

// ListFiles returns the regular entries of dir whose extension is in exts.
// Matching is exact and case-sensitive. The order is unspecified. An
// unreadable directory yields an empty result rather than an error.
func ListFiles(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debugf("catalog: cannot read %s: %v", dir, err)
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slices.Contains(exts, filepath.Ext(entry.Name())) {
			names = append(names, entry.Name())
		}
	}
	return names
}

// Scan is ListFiles sorted by name.
func Scan(dir string, exts []string) []string {
	names := ListFiles(dir, exts)
	slices.Sort(names)
	return names
}

// ParseExtensions turns "png, jpg" or ".png,.jpg" into [".png", ".jpg"].
func ParseExtensions(csv string) []string {
	var exts []string
	for _, part := range strings.Split(csv, ",") {
		ext := strings.TrimSpace(part)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Catalog is a reusable scanner with an extension allow-list and optional
// ignore globs.
type Catalog struct {
	exts     []string
	patterns []string
	ignore   []glob.Glob
}

// New compiles the ignore patterns and returns a Catalog.
func New(exts []string, ignore ...string) (*Catalog, error) {
	c := &Catalog{
		exts:     slices.Clone(exts),
		patterns: slices.Clone(ignore),
	}
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid ignore pattern", pattern, errors.InvalidConfig, err)
		}
		c.ignore = append(c.ignore, g)
	}
	return c, nil
}

// Extensions returns the allow-list.
func (c *Catalog) Extensions() []string {
	return slices.Clone(c.exts)
}

// Scan returns the sorted listing of dir minus ignored names.
func (c *Catalog) Scan(dir string) []string {
	names := Scan(dir, c.exts)
	if len(c.ignore) == 0 {
		return names
	}
	return slices.DeleteFunc(names, c.ignored)
}

// List is Scan with the directory validated first, for callers that need to
// surface an invalid directory to the user.
func (c *Catalog) List(dir string) ([]string, error) {
	if !IsDir(dir) {
		return nil, errors.NewFileError("not a valid directory", dir, errors.InvalidDirectory, nil)
	}
	return c.Scan(dir), nil
}

func (c *Catalog) ignored(name string) bool {
	for _, g := range c.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

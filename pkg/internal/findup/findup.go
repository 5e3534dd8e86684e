// Package findup searches parent directories for well-known files.
package findup

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/fractulus/fractulus/pkg/internal/branding"
)

// Locator walks from a directory towards the filesystem root looking for
// any of a set of candidate names.
type Locator struct {
	fs             billy.Filesystem
	DependencyRoot string
}

// New returns a Locator over fs. Paths given to Find are absolute paths
// within fs.
func New(fs billy.Filesystem) *Locator {
	return &Locator{fs: fs, DependencyRoot: branding.DependencyRoot()}
}

// NewOS returns a Locator over the host filesystem.
func NewOS() *Locator {
	return New(osfs.New("/"))
}

// Find returns the path of the nearest candidate found in from or one of its
// ancestors. At each level the candidates are checked in order, each exactly
// once. When stopAtDependencyRoot is set and nothing matched at a level that
// contains the dependency root directory, the search ends there. A failed
// existence check counts as a miss.
func (l *Locator) Find(names []string, from string, stopAtDependencyRoot bool) (string, bool) {
	dir := filepath.Clean(from)
	for {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := l.fs.Stat(p); err == nil {
				return p, true
			}
		}

		if stopAtDependencyRoot && l.DependencyRoot != "" {
			if _, err := l.fs.Stat(filepath.Join(dir, l.DependencyRoot)); err == nil {
				return "", false
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// FindUp runs Find on the host filesystem.
func FindUp(names []string, from string, stopAtDependencyRoot bool) (string, bool) {
	return NewOS().Find(names, from, stopAtDependencyRoot)
}

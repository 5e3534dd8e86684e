// Package templates resolves the template roots used to scaffold apps,
// components and pages. The default roots are compiled into the binary; a
// local directory or a git repository can replace any of them.
package templates

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	cp "github.com/otiai10/copy"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
)

//go:embed all:app all:component all:page
var embedded embed.FS

// Kind names a template root.
type Kind string

const (
	App       Kind = "app"
	Component Kind = "component"
	Page      Kind = "page"
)

// Kinds lists every template root in a set.
var Kinds = []Kind{App, Component, Page}

// Set maps each Kind to its template root.
type Set struct {
	roots map[Kind]fs.FS
	dir   string
}

// Embedded returns the templates compiled into the binary.
func Embedded() *Set {
	s := &Set{roots: map[Kind]fs.FS{}}
	for _, k := range Kinds {
		sub, err := fs.Sub(embedded, string(k))
		if err != nil {
			panic(err)
		}
		s.roots[k] = sub
	}
	return s
}

// Load returns the template set for source. An empty source selects the
// embedded templates. Otherwise source is a local directory or a git URL
// whose app/, component/ and page/ directories replace the embedded ones;
// kinds it does not provide keep the embedded templates. Close removes the
// local snapshot.
func Load(ctx context.Context, source string, log logging.Logger) (*Set, error) {
	set := Embedded()
	if source == "" {
		return set, nil
	}

	tmpDir, err := os.MkdirTemp("", "fractulus")
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInternal, "creating template snapshot directory", err)
	}
	if err := fetch(ctx, source, tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		return nil, ferrors.Wrap(ferrors.ETemplateNotFound, "cannot load templates from "+source, err)
	}

	set.dir = tmpDir
	for _, k := range Kinds {
		dir := filepath.Join(tmpDir, string(k))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			log.Debugf("using %s templates from %s", k, source)
			set.roots[k] = os.DirFS(dir)
		}
	}
	return set, nil
}

// Present a local directory or a git repo as a directory on disk
func fetch(ctx context.Context, source, dest string) error {
	// if the source is a local folder, then do not git clone it
	if _, err := os.Stat(source); err == nil {
		return cp.Copy(source, dest, cp.Options{
			Skip: func(info os.FileInfo, src, dest string) (bool, error) {
				return info.IsDir() && info.Name() == ".git", nil
			},
		})
	}

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   source,
		Depth: 1,
	})
	return err
}

// Root returns the template root for kind.
func (s *Set) Root(kind Kind) (fs.FS, error) {
	root, ok := s.roots[kind]
	if !ok {
		return nil, ferrors.Newf(ferrors.ETemplateNotFound, "no %s templates", kind)
	}
	return root, nil
}

// Close removes any local snapshot made by Load.
func (s *Set) Close() error {
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

// Package staging holds rendered files in memory until they are committed to
// disk in one step.
package staging

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
)

const tempPrefix = ".fractulus-stage-"

// StagedFile describes a file waiting to be committed.
type StagedFile struct {
	Path string
	Mode os.FileMode
}

// Result lists what a commit wrote.
type Result struct {
	Root  string
	Files []string
}

// Store collects files destined for a single root directory. Nothing touches
// the target filesystem before Commit.
type Store struct {
	root  string
	mem   billy.Filesystem
	files map[string]os.FileMode
	log   logging.Logger
}

// New returns an empty Store for files under root, an absolute path.
func New(root string, log logging.Logger) *Store {
	return &Store{
		root:  filepath.Clean(root),
		mem:   memfs.New(),
		files: map[string]os.FileMode{},
		log:   log,
	}
}

// Root returns the directory every staged file lives under.
func (s *Store) Root() string {
	return s.root
}

// Stage records data for dest. Staging identical content twice is a no-op;
// staging different content for the same path is an error.
func (s *Store) Stage(dest string, data []byte, mode os.FileMode) error {
	dest = filepath.Clean(dest)
	if !s.contains(dest) {
		return ferrors.Newf(ferrors.EInternal, "%s is outside of %s", dest, s.root)
	}

	if _, ok := s.files[dest]; ok {
		existing, err := util.ReadFile(s.mem, dest)
		if err != nil {
			return ferrors.Wrap(ferrors.EInternal, "reading staged "+dest, err)
		}
		if bytes.Equal(existing, data) {
			return nil
		}
		return ferrors.Newf(ferrors.EInternal, "%s staged twice with different content", dest)
	}

	if err := util.WriteFile(s.mem, dest, data, mode); err != nil {
		return ferrors.Wrap(ferrors.EInternal, "staging "+dest, err)
	}
	s.files[dest] = mode
	return nil
}

// Staged returns the staged files ordered by path.
func (s *Store) Staged() []StagedFile {
	out := make([]StagedFile, 0, len(s.files))
	for _, p := range s.paths() {
		out = append(out, StagedFile{Path: p, Mode: s.files[p]})
	}
	return out
}

// Content returns the staged bytes for path.
func (s *Store) Content(path string) ([]byte, bool) {
	path = filepath.Clean(path)
	if _, ok := s.files[path]; !ok {
		return nil, false
	}
	data, err := util.ReadFile(s.mem, path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Len returns the number of staged files.
func (s *Store) Len() int {
	return len(s.files)
}

// Discard drops everything staged so far.
func (s *Store) Discard() {
	s.mem = memfs.New()
	s.files = map[string]os.FileMode{}
}

// Commit writes every staged file to target or none of them. Existing files
// are never overwritten: if any staged path already exists the commit fails
// before anything is written. Files are first written to a temporary
// directory inside the root and then renamed into place; a failure part way
// through removes whatever was already moved.
func (s *Store) Commit(target billy.Filesystem) (*Result, error) {
	paths := s.paths()

	var clashes []string
	for _, p := range paths {
		if _, err := target.Lstat(p); err == nil {
			clashes = append(clashes, p)
		}
	}
	if len(clashes) > 0 {
		return nil, ferrors.Newf(ferrors.EDestinationCollision, "refusing to overwrite existing files: %s", strings.Join(clashes, ", "))
	}

	tx := &commit{target: target, root: s.root}
	if err := tx.run(s.mem, paths, s.files); err != nil {
		tx.rollback()
		return nil, ferrors.Wrap(ferrors.ECommitFailed, "writing files under "+s.root, err)
	}

	base := filepath.Dir(s.root)
	for _, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			rel = p
		}
		s.log.Infof("    %s  %s", "create", rel)
	}

	s.Discard()
	return &Result{Root: s.root, Files: paths}, nil
}

func (s *Store) contains(p string) bool {
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Store) paths() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// commit tracks everything a single Commit created so it can be undone.
type commit struct {
	target billy.Filesystem
	root   string
	tmp    string
	dirs   []string
	moved  []string
}

func (c *commit) run(src billy.Filesystem, paths []string, modes map[string]os.FileMode) error {
	if err := c.mkdirAll(c.root); err != nil {
		return err
	}

	tmp, err := util.TempDir(c.target, c.root, tempPrefix)
	if err != nil {
		return err
	}
	c.tmp = tmp

	for _, p := range paths {
		data, err := util.ReadFile(src, p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(c.root, p)
		if err := util.WriteFile(c.target, filepath.Join(c.tmp, rel), data, modes[p]); err != nil {
			return err
		}
	}

	for _, p := range paths {
		if err := c.mkdirAll(filepath.Dir(p)); err != nil {
			return err
		}
		rel, _ := filepath.Rel(c.root, p)
		if err := c.target.Rename(filepath.Join(c.tmp, rel), p); err != nil {
			return err
		}
		c.moved = append(c.moved, p)
	}

	_ = util.RemoveAll(c.target, c.tmp)
	return nil
}

// mkdirAll creates dir and records every directory that did not exist yet.
func (c *commit) mkdirAll(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := c.target.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if err := c.target.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		c.dirs = append(c.dirs, missing[i])
	}
	return nil
}

func (c *commit) rollback() {
	for i := len(c.moved) - 1; i >= 0; i-- {
		_ = c.target.Remove(c.moved[i])
	}
	if c.tmp != "" {
		_ = util.RemoveAll(c.target, c.tmp)
	}
	for i := len(c.dirs) - 1; i >= 0; i-- {
		_ = c.target.Remove(c.dirs[i])
	}
}

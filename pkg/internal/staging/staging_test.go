package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
)

// failingRenameFS fails the nth Rename call.
type failingRenameFS struct {
	billy.Filesystem
	failOn int
	calls  int
}

func (f *failingRenameFS) Rename(from, to string) error {
	f.calls++
	if f.calls == f.failOn {
		return errors.New("simulated rename failure")
	}
	return f.Filesystem.Rename(from, to)
}

func stageAll(t *testing.T, s *Store, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, s.Stage(p, []byte(content), 0644))
	}
}

func TestStageRejectsPathsOutsideRoot(t *testing.T) {
	s := New("/work/app", logging.Discard())

	assert.Error(t, s.Stage("/work/other/file", nil, 0644))
	assert.Error(t, s.Stage("/work/app", nil, 0644))
	assert.NoError(t, s.Stage("/work/app/file", nil, 0644))
}

func TestStageSamePathTwice(t *testing.T) {
	s := New("/app", logging.Discard())
	require.NoError(t, s.Stage("/app/a.txt", []byte("one"), 0644))

	assert.NoError(t, s.Stage("/app/a.txt", []byte("one"), 0644))
	assert.Error(t, s.Stage("/app/a.txt", []byte("two"), 0644))
	assert.Equal(t, 1, s.Len())

	data, ok := s.Content("/app/a.txt")
	assert.True(t, ok)
	assert.Equal(t, "one", string(data))
}

func TestNothingWrittenBeforeCommit(t *testing.T) {
	target := memfs.New()
	s := New("/app", logging.Discard())
	stageAll(t, s, map[string]string{"/app/a.txt": "a"})

	_, err := target.Stat("/app")
	assert.True(t, os.IsNotExist(err))
}

func TestCommitWritesEveryFile(t *testing.T) {
	target := memfs.New()
	s := New("/work/app", logging.Discard())
	stageAll(t, s, map[string]string{
		"/work/app/package.json":              `{"name":"app"}`,
		"/work/app/.env.sample":               "PORT=3000",
		"/work/app/src/app/components/.gitkeep": "",
	})

	res, err := s.Commit(target)
	require.NoError(t, err)

	assert.Equal(t, "/work/app", res.Root)
	assert.Equal(t, []string{
		"/work/app/.env.sample",
		"/work/app/package.json",
		"/work/app/src/app/components/.gitkeep",
	}, res.Files)

	data, err := util.ReadFile(target, "/work/app/.env.sample")
	require.NoError(t, err)
	assert.Equal(t, "PORT=3000", string(data))

	entries, err := target.ReadDir("/work/app")
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), tempPrefix), "temporary directory left behind: %s", e.Name())
	}
	assert.Equal(t, 0, s.Len())
}

func TestCommitMergesIntoExistingDirectories(t *testing.T) {
	target := memfs.New()
	require.NoError(t, util.WriteFile(target, "/p/src/app/components/card/card.js", []byte("card"), 0644))
	s := New("/p/src/app/components/button", logging.Discard())
	stageAll(t, s, map[string]string{
		"/p/src/app/components/button/button.js":          "button",
		"/p/src/app/components/button/partials/icon.hbs": "icon",
	})

	_, err := s.Commit(target)
	require.NoError(t, err)

	for _, p := range []string{
		"/p/src/app/components/card/card.js",
		"/p/src/app/components/button/button.js",
		"/p/src/app/components/button/partials/icon.hbs",
	} {
		_, err := target.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestCommitRefusesToOverwrite(t *testing.T) {
	target := memfs.New()
	require.NoError(t, util.WriteFile(target, "/app/README.md", []byte("mine"), 0644))
	s := New("/app", logging.Discard())
	stageAll(t, s, map[string]string{
		"/app/README.md": "generated",
		"/app/index.js":  "generated",
	})

	_, err := s.Commit(target)

	assert.Equal(t, ferrors.EDestinationCollision, ferrors.GetCode(err))
	data, _ := util.ReadFile(target, "/app/README.md")
	assert.Equal(t, "mine", string(data))
	_, err = target.Stat("/app/index.js")
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 2, s.Len())
}

func TestCommitRollsBackOnFailure(t *testing.T) {
	target := &failingRenameFS{Filesystem: memfs.New(), failOn: 3}
	require.NoError(t, target.MkdirAll("/work", 0755))
	s := New("/work/app", logging.Discard())
	stageAll(t, s, map[string]string{
		"/work/app/a.txt":         "a",
		"/work/app/b/b.txt":       "b",
		"/work/app/c/d/c.txt":     "c",
		"/work/app/c/d/e/f/g.txt": "g",
	})

	_, err := s.Commit(target)

	assert.Equal(t, ferrors.ECommitFailed, ferrors.GetCode(err))
	_, err = target.Stat("/work/app")
	assert.True(t, os.IsNotExist(err), "root created by the commit must be removed")
	_, err = target.Stat("/work")
	assert.NoError(t, err, "pre-existing directories must survive")
}

func TestCommitRollbackKeepsExistingRoot(t *testing.T) {
	target := &failingRenameFS{Filesystem: memfs.New(), failOn: 2}
	require.NoError(t, util.WriteFile(target, "/app/keep.txt", []byte("keep"), 0644))
	s := New("/app", logging.Discard())
	stageAll(t, s, map[string]string{"/app/x.txt": "x", "/app/y.txt": "y"})

	_, err := s.Commit(target)
	require.Error(t, err)

	entries, err := target.ReadDir("/app")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Name())
}

func TestCommitToHostFilesystem(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "my-app")
	s := New(root, logging.Discard())
	stageAll(t, s, map[string]string{
		filepath.Join(root, "webpack", "_cli.js"): "cli",
		filepath.Join(root, ".env.sample"):        "PORT=3000",
	})

	_, err := s.Commit(osfs.New("/"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "webpack", "_cli.js"))
	require.NoError(t, err)
	assert.Equal(t, "cli", string(data))
	_, err = os.Stat(filepath.Join(root, ".env.sample"))
	assert.NoError(t, err)
}

func TestDiscard(t *testing.T) {
	s := New("/app", logging.Discard())
	stageAll(t, s, map[string]string{"/app/a": "a"})

	s.Discard()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Staged())
}

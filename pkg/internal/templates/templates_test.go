package templates

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
)

func TestEmbeddedTemplates(t *testing.T) {
	set := Embedded()

	expected := map[Kind][]string{
		App: {
			"package.json", "prompts.toml", ".env.sample", ".gitignore", "webpack.build.js",
			"webpack/_cli.js", "src/app/app.js", "src/app/components/.gitkeep", "src/app/pages/.gitkeep",
		},
		Component: {
			"component.js", "component.config.json", "component.hbs", "component.scss",
			"component.spec.js", "partials/header.hbs", "package.json", "README.md", "prompts.toml",
		},
		Page: {"page.hbs", "page.config.json"},
	}

	for kind, files := range expected {
		root, err := set.Root(kind)
		require.NoError(t, err)
		for _, f := range files {
			_, err := fs.Stat(root, f)
			assert.NoError(t, err, "%s/%s", kind, f)
		}
	}
}

func TestLoadEmptySourceUsesEmbedded(t *testing.T) {
	set, err := Load(context.Background(), "", logging.Discard())
	require.NoError(t, err)
	defer set.Close()

	root, err := set.Root(Page)
	require.NoError(t, err)
	_, err = fs.Stat(root, "page.hbs")
	assert.NoError(t, err)
}

func TestLoadLocalDirectoryOverridesProvidedKinds(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "page"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "page", "page.hbs"), []byte("custom"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref"), 0644))

	set, err := Load(context.Background(), src, logging.Discard())
	require.NoError(t, err)

	page, err := set.Root(Page)
	require.NoError(t, err)
	data, err := fs.ReadFile(page, "page.hbs")
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
	_, err = fs.Stat(page, "page.config.json")
	assert.Error(t, err, "a provided kind replaces the embedded root entirely")

	app, err := set.Root(App)
	require.NoError(t, err)
	_, err = fs.Stat(app, "webpack.build.js")
	assert.NoError(t, err, "kinds not provided fall back to the embedded templates")

	snapshot := set.dir
	_, err = os.Stat(filepath.Join(snapshot, ".git"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, set.Close())
	_, err = os.Stat(snapshot)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadUnknownSource(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"), logging.Discard())

	assert.Equal(t, ferrors.ETemplateNotFound, ferrors.GetCode(err))
}

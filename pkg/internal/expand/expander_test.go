package expand

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
	"github.com/fractulus/fractulus/pkg/internal/staging"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 0x01, 0x02}

func templateFS() fstest.MapFS {
	return fstest.MapFS{
		"prompts.toml":              {Data: []byte("[[prompt]]\nname = \"appTitle\"\n")},
		"package.json":              {Data: []byte(`{"name": "<%= appName %>"}`)},
		".env.sample":               {Data: []byte("APP=<%= appName %>\n")},
		"src/app/pages/.gitkeep":    {Data: []byte{}},
		"assets/logo.png":           {Data: pngHeader},
		"bin/start.sh":              {Data: []byte("#!/bin/sh\necho <%= appName %>\n"), Mode: 0755},
		"<%= appName %>.config.js":  {Data: []byte("module.exports = {};\n")},
		"partials/card.hbs":         {Data: []byte("<div>{{ title }}</div>")},
		"component.js":              {Data: []byte("class <%= componentCtrlName %> {}")},
		"broken/ok.txt":             {Data: []byte("fine")},
		"broken/missing.txt":        {Data: []byte("<%= nope %>")},
		".git/HEAD":                 {Data: []byte("ref: refs/heads/main")},
	}
}

func newExpander(root string) (*Expander, *staging.Store) {
	store := staging.New(root, logging.Discard())
	return NewExpander(NewEngine(), store, logging.Discard()), store
}

func TestStageDirectoryIncludesDotfiles(t *testing.T) {
	x, store := newExpander("/out/my-app")

	err := x.Stage(templateFS(), "./", "/out/my-app", map[string]interface{}{
		"appName":           "my-app",
		"componentCtrlName": "CardController",
		"nope":              "x",
	})
	require.NoError(t, err)
	assert.Empty(t, x.Failures())

	env, ok := store.Content("/out/my-app/.env.sample")
	require.True(t, ok)
	assert.Equal(t, "APP=my-app\n", string(env))

	_, ok = store.Content("/out/my-app/src/app/pages/.gitkeep")
	assert.True(t, ok)

	pkg, _ := store.Content("/out/my-app/package.json")
	assert.Equal(t, `{"name": "my-app"}`, string(pkg))

	_, ok = store.Content("/out/my-app/my-app.config.js")
	assert.True(t, ok, "templated file names are rendered")

	_, ok = store.Content("/out/my-app/prompts.toml")
	assert.False(t, ok, "prompt file must not be staged")
	_, ok = store.Content("/out/my-app/.git/HEAD")
	assert.False(t, ok, ".git must not be staged")
}

func TestStageKeepsBinaryFilesVerbatim(t *testing.T) {
	x, store := newExpander("/out")

	require.NoError(t, x.Stage(templateFS(), "assets/logo.png", "/out/logo.png", nil))

	data, ok := store.Content("/out/logo.png")
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)
}

func TestStageSingleFile(t *testing.T) {
	x, store := newExpander("/app/src/app/components/card")

	err := x.Stage(templateFS(), "./component.js", "/app/src/app/components/card/card.js",
		map[string]interface{}{"componentCtrlName": "CardController"})
	require.NoError(t, err)

	data, ok := store.Content("/app/src/app/components/card/card.js")
	require.True(t, ok)
	assert.Equal(t, "class CardController {}", string(data))
	assert.Equal(t, 1, store.Len())
}

func TestStageSubdirectory(t *testing.T) {
	x, store := newExpander("/c")

	require.NoError(t, x.Stage(templateFS(), "./partials/", "/c/partials", nil))

	data, ok := store.Content("/c/partials/card.hbs")
	require.True(t, ok)
	assert.Equal(t, "<div>{{ title }}</div>", string(data))
}

func TestStagePreservesExecutableBit(t *testing.T) {
	x, store := newExpander("/out")

	require.NoError(t, x.Stage(templateFS(), "bin", "/out/bin", map[string]interface{}{"appName": "a"}))

	staged := store.Staged()
	require.Len(t, staged, 1)
	assert.Equal(t, "/out/bin/start.sh", staged[0].Path)
	assert.Equal(t, 0755, int(staged[0].Mode))
}

func TestRenderFailureSkipsOnlyThatFile(t *testing.T) {
	x, store := newExpander("/out")

	require.NoError(t, x.Stage(templateFS(), "broken", "/out/broken", map[string]interface{}{}))

	_, ok := store.Content("/out/broken/ok.txt")
	assert.True(t, ok)
	_, ok = store.Content("/out/broken/missing.txt")
	assert.False(t, ok)

	require.Len(t, x.Failures(), 1)
	assert.Equal(t, "broken/missing.txt", x.Failures()[0].Source)
	assert.Equal(t, ferrors.ETemplateRender, ferrors.GetCode(x.Err()))
}

func TestStageSkip(t *testing.T) {
	x, store := newExpander("/c")
	x.Skip = func(src string) bool { return src == "partials/card.hbs" }

	require.NoError(t, x.Stage(templateFS(), "partials", "/c/partials", nil))

	assert.Equal(t, 0, store.Len())
}

func TestStageMissingTemplate(t *testing.T) {
	x, _ := newExpander("/c")

	err := x.Stage(templateFS(), "nothing-here.js", "/c/x.js", nil)

	assert.Equal(t, ferrors.ETemplateNotFound, ferrors.GetCode(err))
	assert.NoError(t, x.Err())
}

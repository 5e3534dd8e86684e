package prompts

import (
	"testing"
	"testing/fstest"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/expand"
)

const componentPrompts = `
[[prompt]]
name = "componentDesc"
prompt = "Component description"
default = "Awesome <%= componentName %> description!"

[[prompt]]
name = "status"
prompt = "Status"
choices = ["wip", "ready"]
`

func TestReadPromptFile(t *testing.T) {
	root := fstest.MapFS{"prompts.toml": {Data: []byte(componentPrompts)}}

	p, err := ReadPromptFile(root, "prompts.toml")

	require.NoError(t, err)
	require.Len(t, p.Prompts, 2)
	assert.Equal(t, "componentDesc", p.Prompts[0].Name)
	assert.Equal(t, []string{"wip", "ready"}, p.Prompts[1].Choices)
}

func TestReadPromptFileMissing(t *testing.T) {
	p, err := ReadPromptFile(fstest.MapFS{}, "prompts.toml")

	require.NoError(t, err)
	assert.Empty(t, p.Prompts)
}

func TestReadPromptFileRejects(t *testing.T) {
	tests := map[string]string{
		"bad toml":     "[[prompt]\nname=",
		"reserved":     "[[prompt]]\nname = \"appName\"\nprompt = \"x\"\n",
		"missing name": "[[prompt]]\nprompt = \"x\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPromptFile(fstest.MapFS{"prompts.toml": {Data: []byte(content)}}, "prompts.toml")
			assert.Error(t, err)
		})
	}
}

func TestReadOverrides(t *testing.T) {
	bfs := memfs.New()
	file := "/work/.override.toml"
	require.NoError(t, util.WriteFile(bfs, file, []byte("appTitle = \"Shop\"\nappAuthor = \"Jane\"\n"), 0644))

	overrides, err := ReadOverrides(bfs, file)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"appTitle": "Shop", "appAuthor": "Jane"}, overrides)

	missing, err := ReadOverrides(bfs, "/work/nope.toml")
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, util.WriteFile(bfs, file, []byte("appName = \"x\"\n"), 0644))
	_, err = ReadOverrides(bfs, file)
	assert.Error(t, err)
}

func TestAskNonInteractiveUsesRenderedDefaults(t *testing.T) {
	root := fstest.MapFS{"prompts.toml": {Data: []byte(componentPrompts)}}
	p, err := ReadPromptFile(root, "prompts.toml")
	require.NoError(t, err)

	a := &Asker{Engine: expand.NewEngine()}
	answers, err := a.Ask(p, map[string]string{"extra": "value"}, map[string]interface{}{"componentName": "Hello World"})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"componentDesc": "Awesome Hello World description!",
		"status":        "wip",
		"extra":         "value",
	}, answers)
}

func TestAskOverrideSkipsPrompt(t *testing.T) {
	p := &Prompts{Prompts: []Prompt{{Name: "appTitle", Prompt: "Title", Required: true}}}
	a := &Asker{Engine: expand.NewEngine()}

	answers, err := a.Ask(p, map[string]string{"appTitle": "Shop"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Shop", answers["appTitle"])
}

func TestAskRequiredWithoutValue(t *testing.T) {
	p := &Prompts{Prompts: []Prompt{{Name: "appTitle", Prompt: "Title", Required: true}}}
	a := &Asker{Engine: expand.NewEngine()}

	_, err := a.Ask(p, nil, nil)

	assert.Equal(t, ferrors.EPromptFailed, ferrors.GetCode(err))
}

func TestAskDefaultReferencingUnknownValue(t *testing.T) {
	p := &Prompts{Prompts: []Prompt{{Name: "desc", Prompt: "Desc", Default: "<%= missing %>"}}}
	a := &Asker{Engine: expand.NewEngine()}

	_, err := a.Ask(p, nil, map[string]interface{}{})

	assert.Equal(t, ferrors.ETemplateRender, ferrors.GetCode(err))
}

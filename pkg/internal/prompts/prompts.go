// Package prompts collects the answers a template asks for, either
// interactively or from defaults and overrides.
package prompts

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/imdario/mergo"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/expand"
)

// ReservedPromptVariables are derived from the command line and may not be
// asked for or overridden.
var ReservedPromptVariables = []string{
	"appName", "appVersion",
	"componentName", "componentDirName", "componentCtrlName",
	"pageName", "pageDirName",
}

type Prompt struct {
	Name     string   `toml:"name"`
	Prompt   string   `toml:"prompt"`
	Required bool     `toml:"required"`
	Default  string   `toml:"default"`
	Choices  []string `toml:"choices,omitempty"`
}

type Prompts struct {
	Prompts []Prompt `toml:"prompt"`
}

func contains(strings []string, element string) bool {
	for _, s := range strings {
		if s == element {
			return true
		}
	}
	return false
}

// ReadPromptFile reads the prompt definitions at name in root. A template
// without a prompt file asks nothing.
func ReadPromptFile(root fs.FS, name string) (*Prompts, error) {
	promptData, err := fs.ReadFile(root, name)
	if err != nil {
		if os.IsNotExist(err) {
			return &Prompts{}, nil
		}
		return nil, fmt.Errorf("cannot read file %s: %w", name, err)
	}

	prompts := Prompts{}
	if _, err := toml.Decode(string(promptData), &prompts); err != nil {
		return nil, fmt.Errorf("%s file does not match required format: %s", name, err)
	}

	for _, prompt := range prompts.Prompts {
		if prompt.Name == "" {
			return nil, fmt.Errorf("%s file contains a prompt without a name", name)
		}
		if contains(ReservedPromptVariables, prompt.Name) {
			return nil, fmt.Errorf("%s file contains reserved variable: %s", name, prompt.Name)
		}
	}

	return &prompts, nil
}

// ReadOverrides reads key/value answers from a TOML file in bfs. A missing
// file yields no overrides.
func ReadOverrides(bfs billy.Filesystem, name string) (map[string]string, error) {
	overrides := map[string]string{}

	overrideData, err := util.ReadFile(bfs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return overrides, nil
		}
		return nil, fmt.Errorf("cannot read file %s: %w", name, err)
	}

	if _, err := toml.Decode(string(overrideData), &overrides); err != nil {
		return nil, fmt.Errorf("%s file does not match required format: %s", name, err)
	}

	if err := CheckOverrides(overrides); err != nil {
		return nil, fmt.Errorf("%s file: %w", name, err)
	}

	return overrides, nil
}

// CheckOverrides rejects overrides for reserved variables.
func CheckOverrides(overrides map[string]string) error {
	for k := range overrides {
		if contains(ReservedPromptVariables, k) {
			return fmt.Errorf("contains reserved variable: %s", k)
		}
	}
	return nil
}

// Asker answers prompts.
type Asker struct {
	Stdio       terminal.Stdio
	Interactive bool
	Engine      *expand.Engine
}

// Ask returns an answer for every prompt plus every override. Overridden
// prompts are not asked. Defaults may reference vars and earlier answers.
// When not interactive the (rendered) defaults are used, and a required
// prompt without one is an error.
func (a *Asker) Ask(prompts *Prompts, overrides map[string]string, vars map[string]interface{}) (map[string]interface{}, error) {
	answers := map[string]interface{}{}
	for k, v := range overrides {
		answers[k] = v
	}

	for _, prompt := range prompts.Prompts {
		if _, exists := overrides[prompt.Name]; exists {
			continue
		}

		scope := map[string]interface{}{}
		if err := mergo.Merge(&scope, vars); err != nil {
			return nil, ferrors.Wrap(ferrors.EInternal, "merging prompt context", err)
		}
		if err := mergo.Merge(&scope, answers, mergo.WithOverride); err != nil {
			return nil, ferrors.Wrap(ferrors.EInternal, "merging prompt context", err)
		}

		def, err := a.Engine.RenderString(prompt.Name, prompt.Default, scope)
		if err != nil {
			return nil, err
		}

		result, err := a.ask(prompt, def)
		if err != nil {
			return nil, err
		}
		answers[prompt.Name] = result
	}

	return answers, nil
}

func (a *Asker) ask(prompt Prompt, def string) (string, error) {
	if !a.Interactive {
		if def == "" && len(prompt.Choices) > 0 {
			def = prompt.Choices[0]
		}
		if def == "" && prompt.Required {
			return "", ferrors.Newf(ferrors.EPromptFailed, "no value for required prompt %s", prompt.Name)
		}
		return def, nil
	}

	opts := []survey.AskOpt{survey.WithStdio(a.Stdio.In, a.Stdio.Out, a.Stdio.Err)}
	if prompt.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var p survey.Prompt
	if len(prompt.Choices) == 0 {
		p = &survey.Input{
			Message: prompt.Prompt + " ->",
			Default: def,
		}
	} else {
		sel := &survey.Select{
			Message: prompt.Prompt + " ->",
			Options: prompt.Choices,
		}
		if contains(prompt.Choices, def) {
			sel.Default = def
		}
		p = sel
	}

	var result string
	if err := survey.AskOne(p, &result, opts...); err != nil {
		return "", ferrors.Wrap(ferrors.EPromptFailed, "prompt "+prompt.Name+" failed", err)
	}
	return result, nil
}

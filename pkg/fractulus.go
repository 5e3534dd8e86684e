// Fractulus scaffolds Handlebars/Fractal applications, components and pages
// from templates, and runs the project's bundler for serve and build.
// Everything a command writes is rendered in memory first and committed to
// disk in one step.
package fractulus

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/fractulus/fractulus/pkg/internal/config"
	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/expand"
	"github.com/fractulus/fractulus/pkg/internal/logging"
	"github.com/fractulus/fractulus/pkg/internal/prompts"
	"github.com/fractulus/fractulus/pkg/internal/runner"
	"github.com/fractulus/fractulus/pkg/internal/templates"
)

// Fractulus allows programmatic control over how projects are scaffolded.
// Overrides are skipped in prompts; they can also be provided in a
// `.override.toml` file in the working directory, which the Overrides given
// here take precedence over.
type Fractulus struct {
	Overrides  map[string]string
	WorkingDir string

	fs             billy.Filesystem
	log            logging.Logger
	templates      *templates.Set
	templateSource string
	stdio          terminal.Stdio
	interactive    bool
	renderPolicy   string
	runner         runner.CommandRunner
	packageManager string
	node           string
	stdout         io.Writer
	stderr         io.Writer
	engine         *expand.Engine
}

type Option func(*Fractulus)

func WithOverrides(overrides map[string]string) Option {
	return func(f *Fractulus) {
		f.Overrides = overrides
	}
}

// WithWorkingDir sets the directory new apps are created in and project
// discovery starts from.
func WithWorkingDir(dir string) Option {
	return func(f *Fractulus) {
		f.WorkingDir = dir
	}
}

// WithFilesystem replaces the host filesystem. Paths within fs are absolute.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(f *Fractulus) {
		f.fs = fs
	}
}

func WithLogger(log Logger) Option {
	return func(f *Fractulus) {
		f.log = log
	}
}

// WithTemplateSource replaces the built-in templates with those found in a
// local directory or git repository.
func WithTemplateSource(source string) Option {
	return func(f *Fractulus) {
		f.templateSource = source
	}
}

func withTemplates(set *templates.Set) Option {
	return func(f *Fractulus) {
		f.templates = set
	}
}

// WithStdio sets the terminal prompts are asked on.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, err io.Writer) Option {
	return func(f *Fractulus) {
		f.stdio = terminal.Stdio{In: in, Out: out, Err: err}
	}
}

// WithInteractive controls whether prompts are asked. When false every
// prompt takes its default.
func WithInteractive(interactive bool) Option {
	return func(f *Fractulus) {
		f.interactive = interactive
	}
}

// WithRenderPolicy selects what happens when a template fails to render:
// RenderStrict aborts the command, RenderBestEffort skips the file.
func WithRenderPolicy(policy string) Option {
	return func(f *Fractulus) {
		f.renderPolicy = policy
	}
}

func withRunner(r runner.CommandRunner) Option {
	return func(f *Fractulus) {
		f.runner = r
	}
}

// WithPackageManager sets the command run to install a new app's packages.
func WithPackageManager(pm string) Option {
	return func(f *Fractulus) {
		f.packageManager = pm
	}
}

// WithNode sets the node binary that runs the bundler.
func WithNode(node string) Option {
	return func(f *Fractulus) {
		f.node = node
	}
}

// WithOutput sets where bundler output is streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(f *Fractulus) {
		f.stdout = stdout
		f.stderr = stderr
	}
}

// New creates a Fractulus with the given options. Templates from a
// configured source are fetched here; call Close when done.
func New(ctx context.Context, opts ...Option) (*Fractulus, error) {
	f := &Fractulus{
		Overrides:      map[string]string{},
		fs:             osfs.New("/"),
		stdio:          terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
		interactive:    true,
		renderPolicy:   config.PolicyStrict,
		runner:         runner.NewRealRunner(),
		packageManager: "npm",
		node:           "node",
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		engine:         expand.NewEngine(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.log == nil {
		f.log = logging.New(logging.Options{})
	}

	if f.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, ferrors.Wrap(ferrors.EInternal, "cannot determine working directory", err)
		}
		f.WorkingDir = wd
	}
	if !filepath.IsAbs(f.WorkingDir) {
		abs, err := filepath.Abs(f.WorkingDir)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.EInternal, "cannot resolve "+f.WorkingDir, err)
		}
		f.WorkingDir = abs
	}

	if err := config.CheckRenderPolicy(f.renderPolicy); err != nil {
		return nil, err
	}
	if err := prompts.CheckOverrides(f.Overrides); err != nil {
		return nil, ferrors.Wrap(ferrors.EUsage, "invalid override", err)
	}

	if f.templates == nil {
		set, err := templates.Load(ctx, f.templateSource, f.log)
		if err != nil {
			return nil, err
		}
		f.templates = set
	}

	return f, nil
}

// Close releases any fetched templates.
func (f *Fractulus) Close() error {
	return f.templates.Close()
}

// ask collects answers for the prompts of a template root.
func (f *Fractulus) ask(root templates.Kind, vars map[string]interface{}) (map[string]interface{}, error) {
	tmpl, err := f.templates.Root(root)
	if err != nil {
		return nil, err
	}

	ps, err := prompts.ReadPromptFile(tmpl, expand.PromptFile)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, "invalid "+string(root)+" prompts", err)
	}

	overrides, err := prompts.ReadOverrides(f.fs, filepath.Join(f.WorkingDir, expand.OverrideFile))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, "invalid overrides", err)
	}
	for k, v := range f.Overrides {
		overrides[k] = v
	}

	asker := &prompts.Asker{Stdio: f.stdio, Interactive: f.interactive, Engine: f.engine}
	return asker.Ask(ps, overrides, vars)
}

// checkRender applies the render policy to the failures an expander saw.
func (f *Fractulus) checkRender(x *expand.Expander) error {
	failures := x.Failures()
	if len(failures) == 0 {
		return nil
	}
	if f.renderPolicy == config.PolicyBestEffort {
		for _, fail := range failures {
			f.log.Warnf("skipped %s", fail.Source)
		}
		return nil
	}
	return x.Err()
}

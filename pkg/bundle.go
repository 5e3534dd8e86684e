package fractulus

import (
	"context"

	"github.com/fractulus/fractulus/pkg/internal/branding"
	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/project"
	"github.com/fractulus/fractulus/pkg/internal/runner"
)

// Serve runs the enclosing project's bundler and, unless watching, starts
// the Fractal server.
func (f *Fractulus) Serve(ctx context.Context, opts BuildOptions) error {
	script, err := f.bundlerScript()
	if err != nil {
		return err
	}
	return f.bundler().Serve(ctx, script, opts)
}

// Build runs the enclosing project's bundler followed by a static Fractal
// build.
func (f *Fractulus) Build(ctx context.Context, opts BuildOptions) error {
	script, err := f.bundlerScript()
	if err != nil {
		return err
	}
	return f.bundler().Build(ctx, script, opts)
}

func (f *Fractulus) bundler() *runner.Bundler {
	return &runner.Bundler{
		Runner: f.runner,
		Node:   f.node,
		Log:    f.log,
		Stdout: f.stdout,
		Stderr: f.stderr,
	}
}

func (f *Fractulus) bundlerScript() (string, error) {
	pc := project.NewContext(f.fs, f.WorkingDir)
	if _, err := pc.Root(); err != nil {
		return "", err
	}
	script, ok := pc.BuildToolPath()
	if !ok {
		return "", ferrors.Newf(ferrors.EBundlerNotFound, "Not within a valid fractulus application! (no %s found above %s)", branding.BuildToolFile(), f.WorkingDir)
	}
	return script, nil
}

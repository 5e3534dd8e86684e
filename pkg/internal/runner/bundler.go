package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
)

// EnvFile is read from the project root and overlaid on the bundler's
// environment.
const EnvFile = ".env"

// BuildOptions are forwarded to the bundler script as command line flags.
type BuildOptions struct {
	Prod      bool
	Watch     bool
	SourceMap bool
}

// Args returns the flags for o, in a stable order.
func (o BuildOptions) Args() []string {
	var args []string
	if o.Prod {
		args = append(args, "--prod")
	}
	if o.Watch {
		args = append(args, "--watch")
	}
	if o.SourceMap {
		args = append(args, "--source-map")
	}
	return args
}

// Bundler invokes the project's bundler script with node.
type Bundler struct {
	Runner CommandRunner
	Node   string
	Log    logging.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// Serve runs the bundler's serve entrypoint.
func (b *Bundler) Serve(ctx context.Context, script string, opts BuildOptions) error {
	return b.run(ctx, script, opts.Args())
}

// Build runs the bundler's build entrypoint. Watching makes no sense for a
// build and is ignored.
func (b *Bundler) Build(ctx context.Context, script string, opts BuildOptions) error {
	opts.Watch = false
	return b.run(ctx, script, append([]string{"--build"}, opts.Args()...))
}

func (b *Bundler) run(ctx context.Context, script string, flags []string) error {
	root := filepath.Dir(script)

	env, err := readEnv(filepath.Join(root, EnvFile))
	if err != nil {
		return err
	}

	args := append([]string{script}, flags...)
	b.Log.Debugf("running %s %v in %s", b.Node, args, root)

	res, err := b.Runner.Run(ctx, b.Node, args, RunOpts{
		Dir:    root,
		Env:    env,
		Stdout: b.Stdout,
		Stderr: b.Stderr,
	})
	if err != nil {
		if IsNotInstalled(err) {
			return ferrors.Wrap(ferrors.EToolNotInstalled, b.Node+" is not installed", err)
		}
		return ferrors.Wrap(ferrors.ESubprocess, "bundler failed", err)
	}
	if res.ExitCode != 0 {
		return ferrors.Newf(ferrors.ESubprocess, "bundler exited with code %d", res.ExitCode)
	}
	return nil
}

func readEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, "cannot read "+path, err)
	}
	return env, nil
}

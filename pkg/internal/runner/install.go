package runner

import (
	"context"
	"strings"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
)

// Install runs "<packageManager> install" in dir and logs what it printed.
// Callers treat a failure as a warning: the project is already on disk.
func Install(ctx context.Context, r CommandRunner, log logging.Logger, packageManager, dir string) error {
	log.Warnf("Running %s install", strings.ToUpper(packageManager))
	log.Warnf("This might take a while...")

	res, err := r.Run(ctx, packageManager, []string{"install"}, RunOpts{Dir: dir})
	if err != nil {
		if IsNotInstalled(err) {
			return ferrors.Wrap(ferrors.EToolNotInstalled, packageManager+" is not installed", err)
		}
		return ferrors.Wrap(ferrors.ESubprocess, packageManager+" install failed", err)
	}

	if out := strings.TrimSpace(res.Stdout); out != "" {
		log.Infof("%s", out)
	}
	if out := strings.TrimSpace(res.Stderr); out != "" {
		log.Warnf("%s", out)
	}

	if res.ExitCode != 0 {
		return ferrors.Newf(ferrors.ESubprocess, "%s install exited with code %d", packageManager, res.ExitCode)
	}
	return nil
}

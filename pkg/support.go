package fractulus

import (
	"github.com/fractulus/fractulus/pkg/internal/branding"
	"github.com/fractulus/fractulus/pkg/internal/config"
	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
	"github.com/fractulus/fractulus/pkg/internal/runner"
)

// Render policies accepted by WithRenderPolicy.
const (
	RenderStrict     = config.PolicyStrict
	RenderBestEffort = config.PolicyBestEffort
)

type (
	// BuildOptions are the bundler flags for Serve and Build.
	BuildOptions = runner.BuildOptions
	// Settings are the user settings read by LoadSettings.
	Settings = config.Settings
	Logger   = logging.Logger
	// LogOptions configure NewLogger.
	LogOptions = logging.Options
)

// LoadSettings reads user settings from file, or the default settings file
// when file is empty.
func LoadSettings(file string) (*Settings, error) {
	return config.Load(file)
}

// SettingsFile returns the default settings file path.
func SettingsFile() string {
	return config.FilePath()
}

func NewLogger(opts LogOptions) Logger {
	return logging.New(opts)
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	return ferrors.ExitCode(err)
}

// ErrorMessage returns the human readable part of err.
func ErrorMessage(err error) string {
	return ferrors.Message(err)
}

// ErrorCode returns the stable code attached to err, if any.
func ErrorCode(err error) string {
	return string(ferrors.GetCode(err))
}

// UsageError marks err as a command line mistake.
func UsageError(msg string, err error) error {
	return ferrors.Wrap(ferrors.EUsage, msg, err)
}

func CLIName() string     { return branding.CLIName() }
func DisplayName() string { return branding.DisplayName() }
func Description() string { return branding.Description() }
func Version() string     { return branding.Version() }

// Package config manages user-level settings stored at ~/.fractulus/config.yaml
// and overridable through FRACTULUS_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/fractulus/fractulus/pkg/internal/branding"
	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
)

const (
	fileName = "config"
	fileType = "yaml"
)

const (
	KeyPackageManager = "package_manager"
	KeyNode           = "node"
	KeyRenderPolicy   = "render_policy"
	KeySkipInstall    = "skip_install"
	KeyTemplateSource = "template_source"
)

// Render policies.
const (
	PolicyStrict     = "strict"
	PolicyBestEffort = "best-effort"
)

// Settings are the resolved user settings.
type Settings struct {
	PackageManager string
	Node           string
	RenderPolicy   string
	SkipInstall    bool
	TemplateSource string
}

// Dir returns the path to the fractulus config directory (~/.fractulus/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.fractulus/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load reads settings from file, or from FilePath when file is empty, with
// environment variables taking precedence. The default file may be absent;
// an explicitly named one may not.
func Load(file string) (*Settings, error) {
	v := viper.New()
	v.SetDefault(KeyPackageManager, "npm")
	v.SetDefault(KeyNode, "node")
	v.SetDefault(KeyRenderPolicy, PolicyStrict)
	v.SetDefault(KeySkipInstall, false)
	v.SetDefault(KeyTemplateSource, "")

	explicit := file != ""
	if !explicit {
		file = FilePath()
	}
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, ferrors.Wrap(ferrors.EInvalidConfig, "cannot read settings from "+file, err)
		}
	} else if explicit {
		return nil, ferrors.Wrap(ferrors.EConfigNotFound, "settings file "+file+" not found", err)
	}

	s := &Settings{
		PackageManager: v.GetString(KeyPackageManager),
		Node:           v.GetString(KeyNode),
		RenderPolicy:   v.GetString(KeyRenderPolicy),
		SkipInstall:    v.GetBool(KeySkipInstall),
		TemplateSource: v.GetString(KeyTemplateSource),
	}
	if err := CheckRenderPolicy(s.RenderPolicy); err != nil {
		return nil, err
	}
	return s, nil
}

// CheckRenderPolicy rejects unknown render policies.
func CheckRenderPolicy(policy string) error {
	switch policy {
	case PolicyStrict, PolicyBestEffort:
		return nil
	}
	return ferrors.Newf(ferrors.EUsage, "unknown render policy %q (want %s or %s)", policy, PolicyStrict, PolicyBestEffort)
}

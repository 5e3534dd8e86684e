// Package branding provides the identity values baked into the binary:
// command name, marker file names and the environment prefix.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	Version        string `yaml:"version"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	ConfigFile     string `yaml:"config_file"`
	BuildToolFile  string `yaml:"build_tool_file"`
	DependencyRoot string `yaml:"dependency_root"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:        "fractulus",
			DisplayName:    "Fractulus CLI",
			Description:    "Handlebars Fractal CLI Tool",
			Version:        "0.0.0",
			HomeDir:        ".fractulus",
			EnvPrefix:      "FRACTULUS",
			ConfigFile:     ".fractulus-cli.json",
			BuildToolFile:  "webpack.build.js",
			DependencyRoot: "node_modules",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "fractulus").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the namespace shown in log lines (e.g., "Fractulus CLI").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// Version returns the release version of the tool.
func Version() string { load(); return defaults.Version }

// HomeDir returns the dot-directory name under $HOME (e.g., ".fractulus").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "FRACTULUS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ConfigFile returns the name of the project marker file.
func ConfigFile() string { load(); return defaults.ConfigFile }

// BuildToolFile returns the name of the bundler entrypoint file.
func BuildToolFile() string { load(); return defaults.BuildToolFile }

// DependencyRoot returns the directory name that bounds upward searches.
func DependencyRoot() string { load(); return defaults.DependencyRoot }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("node") → "FRACTULUS_NODE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

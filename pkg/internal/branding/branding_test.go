package branding

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedIdentity(t *testing.T) {
	assert.Equal(t, "fractulus", CLIName())
	assert.Equal(t, "Fractulus CLI", DisplayName())
	assert.Equal(t, ".fractulus-cli.json", ConfigFile())
	assert.Equal(t, "webpack.build.js", BuildToolFile())
	assert.Equal(t, "node_modules", DependencyRoot())
	assert.Equal(t, ".fractulus", HomeDir())
}

func TestVersionIsSemver(t *testing.T) {
	_, err := semver.NewVersion(Version())
	require.NoError(t, err)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "FRACTULUS_PACKAGE_MANAGER", EnvVar("package_manager"))
}

// Package project discovers the enclosing fractulus project and reads its
// configuration.
package project

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/fractulus/fractulus/pkg/internal/branding"
	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/findup"
)

// Context answers questions about the project enclosing a working directory.
type Context struct {
	fs      billy.Filesystem
	locator *findup.Locator
	cwd     string
}

// NewContext returns a Context for cwd, an absolute path within fs.
func NewContext(fs billy.Filesystem, cwd string) *Context {
	return &Context{
		fs:      fs,
		locator: findup.New(fs),
		cwd:     filepath.Clean(cwd),
	}
}

// WorkingDir returns the directory searches start from.
func (c *Context) WorkingDir() string {
	return c.cwd
}

// ConfigPath returns the path of the nearest marker file.
func (c *Context) ConfigPath() (string, bool) {
	return c.locator.Find([]string{branding.ConfigFile()}, c.cwd, false)
}

// IsValidProject reports whether a marker file is discoverable upward.
func (c *Context) IsValidProject() bool {
	_, ok := c.ConfigPath()
	return ok
}

// Root returns the directory containing the marker file.
func (c *Context) Root() (string, error) {
	p, ok := c.ConfigPath()
	if !ok {
		return "", c.notFound()
	}
	return filepath.Dir(p), nil
}

// LoadConfig reads and validates the nearest project config.
func (c *Context) LoadConfig() (*Config, error) {
	p, ok := c.ConfigPath()
	if !ok {
		return nil, c.notFound()
	}

	data, err := util.ReadFile(c.fs, p)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, "reading "+p, err)
	}
	return Parse(data)
}

// Resolve joins elem onto the project root. Relative config paths such as
// "./src/app/pages" always resolve against the root, never the working
// directory. Paths that leave the root are rejected.
func (c *Context) Resolve(elem ...string) (string, error) {
	root, err := c.Root()
	if err != nil {
		return "", err
	}
	p := filepath.Join(append([]string{root}, elem...)...)
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ferrors.Newf(ferrors.EInvalidConfig, "%s is outside the project at %s", filepath.Join(elem...), root)
	}
	return p, nil
}

// BuildToolPath returns the path of the nearest bundler entrypoint.
func (c *Context) BuildToolPath() (string, bool) {
	return c.locator.Find([]string{branding.BuildToolFile()}, c.cwd, false)
}

// HasBuildTool reports whether a bundler entrypoint is discoverable upward,
// whether or not a marker file is.
func (c *Context) HasBuildTool() bool {
	_, ok := c.BuildToolPath()
	return ok
}

// Exists reports whether path exists.
func (c *Context) Exists(path string) bool {
	_, err := c.fs.Stat(path)
	return err == nil
}

func (c *Context) notFound() error {
	return ferrors.Newf(ferrors.EConfigNotFound, "Not within a valid fractulus application! (no %s found above %s)", branding.ConfigFile(), c.cwd)
}

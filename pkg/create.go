package fractulus

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"

	"github.com/fractulus/fractulus/pkg/internal/branding"
	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/expand"
	"github.com/fractulus/fractulus/pkg/internal/naming"
	"github.com/fractulus/fractulus/pkg/internal/project"
	"github.com/fractulus/fractulus/pkg/internal/runner"
	"github.com/fractulus/fractulus/pkg/internal/staging"
	"github.com/fractulus/fractulus/pkg/internal/templates"
)

// NewAppOptions tunes NewApp.
type NewAppOptions struct {
	SkipInstall bool
}

// ComponentOptions tunes CreateComponent.
type ComponentOptions struct {
	SkipTest bool
}

const componentSpecFile = "component.spec.js"

// NewApp scaffolds a new application in a directory named after name, under
// the working directory, then installs its packages.
func (f *Fractulus) NewApp(ctx context.Context, name string, opts NewAppOptions) (err error) {
	req := newRequest(templates.App, name, f.log)
	defer func() {
		if err != nil {
			req.fail(err)
		}
	}()

	req.DirName = naming.DirName(name, "", "")
	if req.DirName == "" {
		return ferrors.Newf(ferrors.EUsage, "%q is not a valid application name", name)
	}
	dest := filepath.Join(f.WorkingDir, req.DirName)
	if _, err := f.fs.Lstat(dest); err == nil {
		return ferrors.New(ferrors.EDestinationCollision, "Application/Folder with a similar name already exists in the current working directory!")
	}

	req.to(Prompting)
	f.log.Infof("Package Name: %s", req.DirName)
	vars := map[string]interface{}{
		"appName":    req.DirName,
		"appVersion": project.DefaultVersion,
	}
	req.Answers, err = f.ask(templates.App, vars)
	if err != nil {
		return err
	}
	if err := req.merge(vars, req.Answers, map[string]interface{}{
		"appComponentsPath": project.DefaultComponentsPath,
		"appPagesPath":      project.DefaultPagesPath,
	}); err != nil {
		return err
	}

	req.to(Staging)
	if err := f.fs.MkdirAll(dest, 0755); err != nil {
		return ferrors.Wrap(ferrors.EDirectoryCreate, "cannot create "+dest, err)
	}
	defer func() {
		if err != nil {
			_ = util.RemoveAll(f.fs, dest)
		}
	}()

	store := staging.New(dest, f.log)
	x := expand.NewExpander(f.engine, store, f.log)
	root, err := f.templates.Root(templates.App)
	if err != nil {
		return err
	}
	if err := x.Stage(root, ".", dest, req.Context); err != nil {
		return err
	}
	if err := f.checkRender(x); err != nil {
		return err
	}

	cfg := &project.Config{
		AppName:           req.DirName,
		AppVersion:        project.DefaultVersion,
		AppComponentsPath: project.DefaultComponentsPath,
		AppPagesPath:      project.DefaultPagesPath,
		AppTitle:          req.value("appTitle"),
		AppDescription:    req.value("appDescription"),
		AppAuthor:         req.value("appAuthor"),
	}
	data, err := cfg.Marshal()
	if err != nil {
		return ferrors.Wrap(ferrors.EInternal, "encoding project config", err)
	}
	if err := store.Stage(filepath.Join(dest, branding.ConfigFile()), data, 0644); err != nil {
		return err
	}

	if err := f.commit(req, store); err != nil {
		return err
	}
	f.log.Successf("Application created under %s", dest)

	if !opts.SkipInstall {
		if err := runner.Install(ctx, f.runner, f.log, f.packageManager, dest); err != nil {
			f.log.Warnf("%s", ferrors.Message(err))
		}
	}
	return nil
}

// CreateComponent scaffolds a component inside the enclosing project's
// components directory.
func (f *Fractulus) CreateComponent(ctx context.Context, name string, opts ComponentOptions) (err error) {
	req := newRequest(templates.Component, name, f.log)
	defer func() {
		if err != nil {
			req.fail(err)
		}
	}()

	req.DirName = naming.DirName(name, "", "")
	req.IdentifierName = naming.IdentifierName(name, "", "Controller")
	dir, cfg, err := f.target(req, func(c *project.Config) string { return c.AppComponentsPath })
	if err != nil {
		return err
	}

	req.to(Prompting)
	vars := map[string]interface{}{
		"componentName":     name,
		"componentDirName":  req.DirName,
		"componentCtrlName": req.IdentifierName,
	}
	scope := map[string]interface{}{}
	for k, v := range cfg.Values() {
		scope[k] = v
	}
	for k, v := range vars {
		scope[k] = v
	}
	req.Answers, err = f.ask(templates.Component, scope)
	if err != nil {
		return err
	}
	if err := req.merge(cfg.Values(), vars, req.Answers); err != nil {
		return err
	}

	req.to(Staging)
	root, err := f.templates.Root(templates.Component)
	if err != nil {
		return err
	}
	store := staging.New(dir, f.log)
	x := expand.NewExpander(f.engine, store, f.log)
	if opts.SkipTest {
		x.Skip = func(src string) bool { return src == componentSpecFile }
	}

	base := filepath.Join(dir, req.DirName)
	files := []struct{ src, dest string }{
		{"component.js", base + ".js"},
		{"component.config.json", base + ".config.json"},
		{"component.hbs", base + ".hbs"},
		{"component.scss", base + ".scss"},
		{componentSpecFile, base + ".spec.js"},
		{"partials", filepath.Join(dir, "partials")},
		{"package.json", filepath.Join(dir, "package.json")},
		{"README.md", filepath.Join(dir, "README.md")},
	}
	for _, file := range files {
		if err := x.Stage(root, file.src, file.dest, req.Context); err != nil {
			return err
		}
	}
	if err := f.checkRender(x); err != nil {
		return err
	}

	if err := f.commit(req, store); err != nil {
		return err
	}
	f.log.Successf("Component created under %s", dir)
	return nil
}

// CreatePage scaffolds a page inside the enclosing project's pages
// directory.
func (f *Fractulus) CreatePage(ctx context.Context, name string) (err error) {
	req := newRequest(templates.Page, name, f.log)
	defer func() {
		if err != nil {
			req.fail(err)
		}
	}()

	req.DirName = naming.DirName(name, "", "")
	dir, cfg, err := f.target(req, func(c *project.Config) string { return c.AppPagesPath })
	if err != nil {
		return err
	}

	// Pages have no prompts of their own.
	req.to(Prompting)
	vars := map[string]interface{}{
		"pageName":    name,
		"pageDirName": req.DirName,
	}
	if err := req.merge(cfg.Values(), vars); err != nil {
		return err
	}

	req.to(Staging)
	root, err := f.templates.Root(templates.Page)
	if err != nil {
		return err
	}
	store := staging.New(dir, f.log)
	x := expand.NewExpander(f.engine, store, f.log)
	base := filepath.Join(dir, req.DirName)
	if err := x.Stage(root, "page.hbs", base+".hbs", req.Context); err != nil {
		return err
	}
	if err := x.Stage(root, "page.config.json", base+".config.json", req.Context); err != nil {
		return err
	}
	if err := f.checkRender(x); err != nil {
		return err
	}

	if err := f.commit(req, store); err != nil {
		return err
	}
	f.log.Successf("Page created under %s", dir)
	return nil
}

// target validates a component or page request and returns the directory it
// will be created in, resolved against the project root.
func (f *Fractulus) target(req *Request, parent func(*project.Config) string) (string, *project.Config, error) {
	if req.DirName == "" {
		return "", nil, ferrors.Newf(ferrors.EUsage, "%q is not a valid %s name", req.Name, req.Kind)
	}

	pc := project.NewContext(f.fs, f.WorkingDir)
	cfg, err := pc.LoadConfig()
	if err != nil {
		return "", nil, err
	}
	dir, err := pc.Resolve(parent(cfg), req.DirName)
	if err != nil {
		return "", nil, err
	}
	if pc.Exists(dir) {
		return "", nil, ferrors.New(ferrors.EDestinationCollision, "Folder with a similar name already exists!")
	}
	return dir, cfg, nil
}

func (f *Fractulus) commit(req *Request, store *staging.Store) error {
	req.to(Committing)
	if _, err := store.Commit(f.fs); err != nil {
		return err
	}
	req.to(Done)
	return nil
}

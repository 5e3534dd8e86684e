package expand

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
	"github.com/fractulus/fractulus/pkg/internal/staging"
)

// Files at the top of a template root that are never copied into a project.
const (
	PromptFile   = "prompts.toml"
	OverrideFile = ".override.toml"
)

var IgnoredNames = []string{PromptFile, OverrideFile, ".git"}

// Failure records a template that could not be rendered.
type Failure struct {
	Source string
	Dest   string
	Err    error
}

// Expander renders templates from a template root into a staging store.
type Expander struct {
	engine   *Engine
	store    *staging.Store
	log      logging.Logger
	failures []Failure

	// Skip, when set, excludes template files by their path within the root.
	Skip func(src string) bool
}

func NewExpander(engine *Engine, store *staging.Store, log logging.Logger) *Expander {
	return &Expander{engine: engine, store: store, log: log}
}

// Failures returns every render failure seen so far.
func (x *Expander) Failures() []Failure {
	return x.failures
}

// Stage renders relativeSrc from root and stages the result at destPath. A
// directory source is staged recursively, dotfiles included, with each file
// at the same relative location under destPath. A file that fails to render
// is logged and recorded in Failures; the rest are still staged.
func (x *Expander) Stage(root fs.FS, relativeSrc, destPath string, data map[string]interface{}) error {
	src := path.Clean(filepath.ToSlash(relativeSrc))

	info, err := fs.Stat(root, src)
	if err != nil {
		return ferrors.Wrap(ferrors.ETemplateNotFound, "template "+relativeSrc+" not found", err)
	}
	if !info.IsDir() {
		return x.stageFile(root, src, destPath, info, data)
	}

	return fs.WalkDir(root, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if isIgnored(p) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, src+"/")
		if src == "." {
			rel = p
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return x.stageFile(root, p, filepath.Join(destPath, filepath.FromSlash(rel)), fi, data)
	})
}

func (x *Expander) stageFile(root fs.FS, src, dest string, info fs.FileInfo, data map[string]interface{}) error {
	if x.Skip != nil && x.Skip(src) {
		x.log.Debugf("skipping template %s", src)
		return nil
	}

	content, err := fs.ReadFile(root, src)
	if err != nil {
		return ferrors.Wrap(ferrors.ETemplateNotFound, "cannot read template "+src, err)
	}

	if strings.Contains(dest, leftDelim) {
		rendered, err := x.engine.RenderString(src, dest, data)
		if err != nil {
			x.fail(src, dest, err)
			return nil
		}
		dest = rendered
	}

	if isText(content) {
		rendered, err := x.engine.Render(src, content, data)
		if err != nil {
			x.fail(src, dest, err)
			return nil
		}
		content = rendered
	}

	return x.store.Stage(dest, content, fileMode(info))
}

func (x *Expander) fail(src, dest string, err error) {
	x.log.Errorf("%s", ferrors.Message(err))
	x.failures = append(x.failures, Failure{Source: src, Dest: dest, Err: err})
}

// Err returns a render error covering every failure, or nil.
func (x *Expander) Err() error {
	if len(x.failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(x.failures))
	names := make([]string, 0, len(x.failures))
	for _, f := range x.failures {
		errs = append(errs, f.Err)
		names = append(names, f.Source)
	}
	return ferrors.Wrap(ferrors.ETemplateRender, "cannot render "+strings.Join(names, ", "), errors.Join(errs...))
}

func isIgnored(p string) bool {
	for _, name := range IgnoredNames {
		if p == name {
			return true
		}
	}
	return false
}

func isText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func fileMode(info fs.FileInfo) os.FileMode {
	if info.Mode()&0111 != 0 {
		return 0755
	}
	return 0644
}

// Package expand renders template trees into a staging store.
package expand

import (
	"bytes"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/iancoleman/strcase"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/naming"
)

const (
	leftDelim  = "<%"
	rightDelim = "%>"
)

var (
	// <%= name %> is shorthand for the context value "name".
	bareOutput = regexp.MustCompile(`<%[=-]\s*([A-Za-z_][A-Za-z0-9_]*)\s*%>`)
	outputTag  = regexp.MustCompile(`<%[=-]`)
)

// Engine renders "<% %>" delimited templates. Handlebars "{{ }}" markup in
// the templates is left untouched.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine returns an Engine with the sprig, case conversion and naming
// helpers available to templates.
func NewEngine() *Engine {
	funcs := sprig.TxtFuncMap()
	for k, v := range (template.FuncMap{
		"snake":          strcase.ToSnake,
		"screamingSnake": strcase.ToScreamingSnake,
		"camel":          strcase.ToCamel,
		"lowerCamel":     strcase.ToLowerCamel,
		"kebab":          strcase.ToKebab,
		"screamingKebab": strcase.ToScreamingKebab,
		"dirName":        func(s string) string { return naming.DirName(s, "", "") },
		"identifierName": func(s string) string { return naming.IdentifierName(s, "", "") },
	}) {
		funcs[k] = v
	}
	return &Engine{funcs: funcs}
}

// Render executes src against data. Referencing a value that is not in data
// is an error.
func (e *Engine) Render(name string, src []byte, data map[string]interface{}) ([]byte, error) {
	text := bareOutput.ReplaceAll(src, []byte("<% .$1 %>"))
	text = outputTag.ReplaceAll(text, []byte(leftDelim))

	tpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Option("missingkey=error").
		Funcs(e.funcs).
		Parse(string(text))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ETemplateRender, "cannot parse template "+name, err)
	}

	var out bytes.Buffer
	if err := tpl.Execute(&out, data); err != nil {
		return nil, ferrors.Wrap(ferrors.ETemplateRender, "cannot replace variables in template "+name, err)
	}
	return out.Bytes(), nil
}

// RenderString is Render for short strings such as prompt defaults or path
// names.
func (e *Engine) RenderString(name, src string, data map[string]interface{}) (string, error) {
	out, err := e.Render(name, []byte(src), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

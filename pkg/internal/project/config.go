package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
)

// Defaults written into a freshly generated project.
const (
	DefaultVersion        = "0.0.1"
	DefaultComponentsPath = "./src/app/components"
	DefaultPagesPath      = "./src/app/pages"
)

//go:embed schema/project.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Config is the persisted project configuration found at the project root.
type Config struct {
	AppName           string `json:"appName"`
	AppVersion        string `json:"appVersion"`
	AppComponentsPath string `json:"appComponentsPath"`
	AppPagesPath      string `json:"appPagesPath"`
	AppTitle          string `json:"appTitle,omitempty"`
	AppDescription    string `json:"appDescription,omitempty"`
	AppAuthor         string `json:"appAuthor,omitempty"`
}

// Values returns the config as template context values keyed by JSON name.
func (c *Config) Values() map[string]interface{} {
	return map[string]interface{}{
		"appName":           c.AppName,
		"appVersion":        c.AppVersion,
		"appComponentsPath": c.AppComponentsPath,
		"appPagesPath":      c.AppPagesPath,
		"appTitle":          c.AppTitle,
		"appDescription":    c.AppDescription,
		"appAuthor":         c.AppAuthor,
	}
}

// Marshal renders the config as indented JSON with a trailing newline.
func (c *Config) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("project.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("project.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Parse validates data against the project schema and decodes it.
func Parse(data []byte) (*Config, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInternal, "loading project schema", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, "project config is not valid JSON", err)
	}

	if err := schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, ferrors.Wrap(ferrors.EInvalidConfig, "validating project config", err)
		}
		return nil, ferrors.Newf(ferrors.EInvalidConfig, "project config is invalid: %s", strings.Join(issues(ve), "; "))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, "decoding project config", err)
	}

	if _, err := semver.NewVersion(cfg.AppVersion); err != nil {
		return nil, ferrors.Wrap(ferrors.EInvalidConfig, fmt.Sprintf("appVersion %q is not a semantic version", cfg.AppVersion), err)
	}

	return &cfg, nil
}

// issues flattens a validation error tree into "path: message" strings.
func issues(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		return []string{"/" + strings.Join(ve.InstanceLocation, "/") + ": " + msg}
	}

	var out []string
	for _, cause := range ve.Causes {
		out = append(out, issues(cause)...)
	}
	return out
}

package fractulus

import (
	"fmt"

	"github.com/imdario/mergo"

	ferrors "github.com/fractulus/fractulus/pkg/internal/errors"
	"github.com/fractulus/fractulus/pkg/internal/logging"
	"github.com/fractulus/fractulus/pkg/internal/templates"
)

// State is the stage a Request has reached.
type State int

const (
	Validating State = iota
	Prompting
	Staging
	Committing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Prompting:
		return "prompting"
	case Staging:
		return "staging"
	case Committing:
		return "committing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Request is a single scaffolding invocation.
type Request struct {
	Kind           templates.Kind
	Name           string
	DirName        string
	IdentifierName string
	Answers        map[string]interface{}
	Context        map[string]interface{}
	State          State

	log logging.Logger
}

func newRequest(kind templates.Kind, name string, log logging.Logger) *Request {
	log.Debugf("%s %q: %s", kind, name, Validating)
	return &Request{
		Kind:    kind,
		Name:    name,
		Answers: map[string]interface{}{},
		Context: map[string]interface{}{},
		State:   Validating,
		log:     log,
	}
}

func (r *Request) to(s State) {
	r.log.Debugf("%s %q: %s -> %s", r.Kind, r.Name, r.State, s)
	r.State = s
}

// fail moves the request to Failed.
func (r *Request) fail(err error) {
	r.to(Failed)
	r.log.Debugf("%s %q: %v", r.Kind, r.Name, err)
}

// merge layers sources onto the template context; later sources win.
func (r *Request) merge(sources ...map[string]interface{}) error {
	for _, src := range sources {
		if err := mergo.Merge(&r.Context, src, mergo.WithOverride); err != nil {
			return ferrors.Wrap(ferrors.EInternal, "merging template context", err)
		}
	}
	return nil
}

func (r *Request) value(key string) string {
	if v, ok := r.Context[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

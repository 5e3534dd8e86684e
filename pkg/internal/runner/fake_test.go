package runner

import (
	"context"
)

type call struct {
	name string
	args []string
	opts RunOpts
}

type fakeRunner struct {
	calls  []call
	result CmdResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	f.calls = append(f.calls, call{name: name, args: args, opts: opts})
	return f.result, f.err
}

// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime runs commands in the embedded mvdan/sh interpreter.
// External programs are still executed through PATH lookups.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return string(ModeVirtual)
}

// Available returns true: the interpreter is built in.
func (r *VirtualRuntime) Available() bool {
	return true
}

// Capture parses and interprets the command, collecting its output.
func (r *VirtualRuntime) Capture(ctx context.Context, req Request) *Result {
	prog, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(req.Command), "inline")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse command: %w", err)}
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, &stderr),
	}
	if req.Dir != "" {
		opts = append(opts, interp.Dir(req.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	err = runner.Run(ctx, prog)
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			result.ExitCode = ExitCode(exitStatus)
			return result
		}
		result.ExitCode = 1
		result.Error = fmt.Errorf("command execution failed: %w", err)
	}

	return result
}

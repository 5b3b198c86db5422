// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// NativeRuntime runs commands through a host shell.
type NativeRuntime struct {
	// Shell is the shell binary, resolved through PATH when not absolute.
	Shell string
}

// NewNativeRuntime creates a native runtime. An empty shell selects DefaultShell.
func NewNativeRuntime(shell string) *NativeRuntime {
	if shell == "" {
		shell = DefaultShell
	}
	return &NativeRuntime{Shell: shell}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return string(ModeNative)
}

// Available returns whether the configured shell can be found.
func (r *NativeRuntime) Available() bool {
	_, err := exec.LookPath(r.Shell)
	return err == nil
}

// Capture runs `<shell> -c <command>` and collects its output.
func (r *NativeRuntime) Capture(ctx context.Context, req Request) *Result {
	shell, err := exec.LookPath(r.Shell)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("find shell %q: %w", r.Shell, err)}
	}

	cmd := exec.CommandContext(ctx, shell, "-c", req.Command)
	cmd.Dir = req.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = ExitCode(exitErr.ExitCode())
		} else {
			result.ExitCode = 1
			result.Error = fmt.Errorf("failed to execute command: %w", err)
		}
	}

	return result
}

// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Runtime mode constants.
const (
	ModeNative  Mode = "native"
	ModeVirtual Mode = "virtual"

	// DefaultShell is the host shell used by the native runtime.
	DefaultShell = "bash"
)

var (
	// ErrInvalidMode is returned when a Mode value is not recognized.
	ErrInvalidMode = errors.New("invalid runtime mode")
	// ErrRuntimeNotAvailable is returned when the selected runtime cannot run on this host.
	ErrRuntimeNotAvailable = errors.New("runtime not available")
)

type (
	// Mode names a runtime implementation.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	// It wraps ErrInvalidMode for errors.Is() compatibility.
	InvalidModeError struct {
		Value Mode
	}

	// ExitCode is a process exit status. The zero value means success.
	ExitCode int

	// Request describes one command to run.
	Request struct {
		// Command is the shell source to execute.
		Command string
		// Dir is the working directory. Empty means the current directory.
		Dir string
	}

	// Result is the outcome of a Capture call.
	Result struct {
		// ExitCode is the command's exit status.
		ExitCode ExitCode
		// Stdout holds everything the command wrote to standard output.
		Stdout []byte
		// Stderr holds everything the command wrote to standard error.
		Stderr []byte
		// Error is set when the command could not be run at all.
		Error error
	}

	// Runtime runs a command to completion and captures its output.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Available reports whether the runtime can run on this host.
		Available() bool
		// Capture runs req and blocks until it exits.
		Capture(ctx context.Context, req Request) *Result
	}
)

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: %s, %s)", e.Value, ModeNative, ModeVirtual)
}

// Unwrap returns ErrInvalidMode.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// Validate returns an error if the mode is not recognized.
func (m Mode) Validate() error {
	switch m {
	case ModeNative, ModeVirtual:
		return nil
	default:
		return &InvalidModeError{Value: m}
	}
}

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Success returns true if the command ran and exited with status 0.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// New returns the runtime for mode. shell only applies to the native runtime;
// an empty shell selects DefaultShell.
func New(mode Mode, shell string) (Runtime, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	var rt Runtime
	switch mode {
	case ModeVirtual:
		rt = NewVirtualRuntime()
	default:
		rt = NewNativeRuntime(shell)
	}

	if !rt.Available() {
		return nil, fmt.Errorf("%w: %s", ErrRuntimeNotAvailable, rt.Name())
	}
	return rt, nil
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// RuntimeNative runs inline commands in the host shell.
	// Defined locally to avoid coupling config to internal/runtime.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs inline commands in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// DefaultShell is the shell of the native runtime.
	DefaultShell = "bash"
	// DefaultDebounce is the quiet period of the watcher.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode selects where inline commands run.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a config RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// InvalidWatchConfigError collects field-level validation errors of a WatchConfig.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field-level validation errors from all sub-components.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Runtime selects where "# build: inline" commands run.
		Runtime RuntimeMode `json:"runtime" mapstructure:"runtime"`
		// Shell is the interpreter of the native runtime.
		Shell string `json:"shell" mapstructure:"shell"`
		// StrictParse rejects scripts containing grammar errors.
		StrictParse bool `json:"strict_parse" mapstructure:"strict_parse"`
		// VerifyOutput re-parses the bundle with mvdan/sh before writing it.
		VerifyOutput bool `json:"verify_output" mapstructure:"verify_output"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures the watch command
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and rendered issue pages.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures which file changes trigger a re-bundle.
	WatchConfig struct {
		// Patterns are doublestar globs relative to the bundle root.
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		// Ignore are doublestar globs excluded from Patterns.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// Debounce is the quiet period before a batch of events is handled.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// IsValid returns whether the RuntimeMode is one of the defined modes.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidConfigRuntimeModeError{Value: m}}
	}
}

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// Error implements the error interface for InvalidConfigRuntimeModeError.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
func (e *InvalidConfigRuntimeModeError) Unwrap() error { return ErrInvalidConfigRuntimeMode }

// IsValid checks every pattern with doublestar and requires a positive debounce.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.Patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("watch.patterns: invalid glob %q", p))
		}
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("watch.ignore: invalid glob %q", p))
		}
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must be positive, got %s", c.Debounce))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the Config has valid fields.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(c.Shell) == "" {
		errs = append(errs, errors.New("shell: must not be empty"))
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Validate is IsValid reduced to a single error.
func (c *Config) Validate() error {
	if valid, errs := c.IsValid(); !valid {
		return errs[0]
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Runtime:      RuntimeNative,
		Shell:        DefaultShell,
		StrictParse:  false,
		VerifyOutput: false,
		UI: UIConfig{
			Verbose: false,
		},
		Watch: WatchConfig{
			Patterns: []string{"**/*.sh", "**/*.bash"},
			Ignore:   []string{},
			Debounce: DefaultDebounce,
		},
	}
}

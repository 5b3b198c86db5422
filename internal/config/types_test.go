// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestRuntimeMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode  RuntimeMode
		valid bool
	}{
		{RuntimeNative, true},
		{RuntimeVirtual, true},
		{"container", false},
		{"", false},
	}
	for _, tt := range tests {
		valid, errs := tt.mode.IsValid()
		if valid != tt.valid {
			t.Errorf("RuntimeMode(%q).IsValid() = %v, want %v", tt.mode, valid, tt.valid)
		}
		if !valid && !errors.Is(errs[0], ErrInvalidConfigRuntimeMode) {
			t.Errorf("error should wrap ErrInvalidConfigRuntimeMode, got %v", errs[0])
		}
	}
}

func TestConfig_IsValidCollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Runtime = "docker"
	cfg.Shell = "  "
	cfg.Watch.Patterns = []string{"{a"}
	cfg.Watch.Debounce = 0

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true for an invalid config")
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors (runtime, shell, watch), got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
	var watchErr *InvalidWatchConfigError
	if !errors.As(cfgErr.FieldErrors[2], &watchErr) || len(watchErr.FieldErrors) != 2 {
		t.Errorf("watch field errors = %v", cfgErr.FieldErrors[2])
	}
}

func TestWatchConfig_IsValid(t *testing.T) {
	t.Parallel()

	ok := WatchConfig{Patterns: []string{"**/*.sh"}, Ignore: []string{"dist/**"}, Debounce: time.Millisecond}
	if valid, errs := ok.IsValid(); !valid {
		t.Errorf("IsValid() = false: %v", errs)
	}
}

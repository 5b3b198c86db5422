// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	fatal := []error{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE, fmt.Errorf("inotify_add_watch: %w", syscall.ENOSPC)}
	for _, err := range fatal {
		if !isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = false, want true", err)
		}
	}

	recoverable := []error{syscall.EPERM, syscall.EACCES, syscall.ENOENT, errors.New("queue overflow")}
	for _, err := range recoverable {
		if isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = true, want false", err)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by package tests: building
// temporary script trees (ScriptTree, MustWriteFile) and restoring process
// state (MustChdir).
package testutil

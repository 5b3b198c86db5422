// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the shbundle command line interface.
//
// The root command bundles a script read from a file or stdin. The inspect,
// watch and config subcommands share the same App, which carries the
// configuration provider and the standard streams so tests can drive every
// command against buffers.
package cmd

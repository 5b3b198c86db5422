// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/shbundle/shbundle/cmd/shbundle"

func main() {
	cmd.Execute()
}

// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/fenics/cmakegen/cmd/cmakegen"

func main() {
	cmd.Execute()
}

// SPDX-License-Identifier: MPL-2.0

// mcpacker packs Minecraft mod files into .pck archives and deploys them.
package main

import cmd "github.com/mcpacker/mcpacker/cmd/mcpacker"

func main() {
	cmd.Execute()
}

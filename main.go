// SPDX-License-Identifier: MPL-2.0

// packget downloads FTB and CurseForge modpacks.
package main

import cmd "github.com/packget/packget/cmd/packget"

func main() {
	cmd.Execute()
}

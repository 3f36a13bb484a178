// SPDX-License-Identifier: MPL-2.0

package main

import cmd "deckscope/cmd/deckscope"

func main() {
	cmd.Execute()
}

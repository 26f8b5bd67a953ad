// brkit searches and navigates BR programs through the BR engine.
// Compiled programs are searched in place; matches open in their source twin,
// decompiled on demand.
package main

import (
	"os"

	"github.com/corey/brkit/cmd/brkit/cmd"
)

func main() {
	os.Exit(cmd.Report(os.Stderr, cmd.Execute()))
}

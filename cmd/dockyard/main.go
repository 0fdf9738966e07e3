// Command dockyard runs the dockable terminal workspace.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

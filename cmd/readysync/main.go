// Command readysync mirrors AssetWorks ReADY work-order requests into
// verified daily flat files.
package main

import (
	"os"

	"github.com/uwfpm/readysync/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}

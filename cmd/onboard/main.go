// Command onboard plays the interactive STIMULUS tutorial.
package main

import (
	"os"

	"github.com/stimulus-ml/onboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

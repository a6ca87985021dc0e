// Command narrsearch searches a line-oriented narrative corpus.
package main

import (
	"os"

	"github.com/dl/narrsearch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

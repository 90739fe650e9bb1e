// errlink - Build Error Linker
//
// errlink runs build commands and turns the source locations in their error
// output into terminal hyperlinks.
package main

import (
	"os"

	"github.com/ccollicutt/errlink/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

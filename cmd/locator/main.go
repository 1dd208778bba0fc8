// Command locator checks and serves locator configurations.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

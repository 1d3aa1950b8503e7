// Command paneld serves declarative admin screens over HTTP.
package main

import (
	"fmt"
	"os"

	"panelcore/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

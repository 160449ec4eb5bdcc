// Command iconctl manages an iconset registry from the shell: upload, list,
// remove and render icons, or bulk-import them from an HCL manifest.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

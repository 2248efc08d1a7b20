// Command gbacore is a thin driver around the interpreter core: it loads a
// BIOS image and ROM image from disk, runs the core to termination, and
// reports the resulting status. It carries no graphics or audio output; the
// core itself is the product, this is just a way to exercise it from a
// shell.
package main

import (
	"fmt"
	"os"

	"gbacore/cmd/gbacore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

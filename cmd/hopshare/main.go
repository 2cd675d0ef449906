// SPDX-License-Identifier: MIT

// Command hopshare compares work distribution strategies for hop-limited
// distance queries over a shared adjacency matrix.
//
//	hopshare distance --size 500 --pool process --strategy shared
//	hopshare demo delay --n 8 --pool thread --as-completed
//	hopshare demo factorize --n 4 --pool process --submit map
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hopshare:", err)
		os.Exit(1)
	}
}

// Package main provides the wavcmp CLI tool.
//
// Usage:
//
//	wavcmp [flags] <a.wav> <b.wav>
//
// Both files are decoded, checked for a compatible layout and compared
// sample by sample. The report names the first and last differing frames
// and their time offsets.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

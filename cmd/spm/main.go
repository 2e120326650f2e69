package main

import (
	"os"
)

// main runs the spm CLI and exits with status 1 if the command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

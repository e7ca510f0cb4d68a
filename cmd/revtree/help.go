package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `revtree - content-addressable, revision-tracked document store

Usage:
  revtree <command> [options]

Commands:
  put         Insert or update a key
  get         Look up a key
  delete      Remove a key
  scan        List entries in key order
  head        Print the current revision id
  log         Walk the revision history
  stats       Print index statistics
  version     Show version information
  help        Show this help message

Common options:
  -data-dir <dir>   Data directory (default "data")
  -config <file>    Configuration file

Run 'revtree <command> -h' for command-specific options.
`)
}

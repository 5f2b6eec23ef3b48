// Command roguecore loads a Lua content pack and plays, validates or
// simulates roguelite runs against it.
//
// Usage: roguecore [--plain] [--script <file>] [--trace] [content_directory]
package main

import (
	"fmt"
	"os"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command atreedemo is an external collaborator over the A-Tree engine's
// public API (spec.md §1): it loads a JSON scenario describing attributes,
// subscriptions, and events, drives a Tree through them, and prints the
// results. It contains no matching logic of its own.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

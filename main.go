// Package main is the entry point for the testimport CLI.
package main

import "gooze.dev/pkg/testimport/cmd"

func main() {
	cmd.Execute()
}

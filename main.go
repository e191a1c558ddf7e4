package main

import (
	"gravitysim/cmd"
)

// main is the entry point for the gravitysim CLI.
func main() {
	cmd.Execute()
}

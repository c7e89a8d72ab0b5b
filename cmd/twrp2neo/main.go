// Package main is the entry point for the twrp2neo CLI.
package main

import (
	"os"

	"github.com/thoreinstein/twrp2neo/cmd/twrp2neo/commands"
)

func main() {
	os.Exit(commands.Execute())
}

// Package main is the single-binary entrypoint for the EcoQuest engine.
package main

import "github.com/ecoquest-app/ecoquest/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

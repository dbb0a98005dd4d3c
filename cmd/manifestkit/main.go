package main

import (
	"fmt"
	"os"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

const (
	exitOK               = 0
	exitValidationFailed = 1
	exitInvalidInput     = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	if len(arguments) < 2 {
		printUsage()
		return exitInvalidInput
	}
	switch arguments[1] {
	case "validate":
		return runValidate(arguments[2:])
	case "capture":
		return runCapture(arguments[2:])
	case "version", "--version", "-v":
		fmt.Println("manifestkit", version)
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  manifestkit validate fixture|e2e|capabilities <manifest.json> [--schema path] [--no-schema] [--json]
  manifestkit capture <fixture_dir> [flags]
  manifestkit version`)
}
